package redissink_test

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-authentik"
	"github.com/goliatone/go-authentik/activity/redissink"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSink_Record(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	sink := redissink.New(client, "")

	assert.Equal(t, redissink.DefaultStream, sink.Stream())

	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err := sink.Record(ctx, auth.ActivityEvent{
		EventType:  auth.ActivityEventLoginFailure,
		Username:   "alice",
		Kind:       auth.KindInvalidCredentials,
		Metadata:   map[string]any{"error": "Username and/or password invalid!"},
		OccurredAt: occurred,
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, redissink.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "auth.login.failure", values["type"])
	assert.Equal(t, "alice", values["username"])
	assert.Equal(t, "invalid_credentials", values["kind"])
	assert.Equal(t, occurred.Format(time.RFC3339Nano), values["occurred_at"])

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(values["metadata"].(string)), &meta))
	assert.Equal(t, "Username and/or password invalid!", meta["error"])
}

func TestSink_WiredIntoAuthenticator(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	sink := redissink.New(client, "test:activity")

	auther := auth.NewAuthenticator(auth.NewAuthConfig(
		auth.WithBasicAuth("alice", "hunter2"),
		auth.WithSigningKey("secret"),
	)).WithActivitySink(sink)

	require.True(t, auther.Login(ctx, "alice", "hunter2").OK())
	require.False(t, auther.Login(ctx, "alice", "wrong").OK())

	entries, err := client.XRange(ctx, "test:activity", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "auth.login.success", entries[0].Values["type"])
	assert.Equal(t, "auth.login.failure", entries[1].Values["type"])
}

func TestSink_RecordClosedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Close())

	err := redissink.New(client, "s").Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventAccessDenied,
	})
	assert.Error(t, err)
}

// stalledAddr accepts connections and never answers
func stalledAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	return ln.Addr().String()
}

func stalledClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:                  stalledAddr(t),
		Protocol:              2,
		MaxRetries:            -1,
		ReadTimeout:           5 * time.Second,
		ContextTimeoutEnabled: true,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSink_TimeoutOnStalledServer(t *testing.T) {
	sink := redissink.New(stalledClient(t), "").WithTimeout(100 * time.Millisecond)

	start := time.Now()
	err := sink.Record(context.Background(), auth.ActivityEvent{EventType: auth.ActivityEventAccessDenied})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSink_StalledServerDoesNotDelayGuard(t *testing.T) {
	sink := redissink.New(stalledClient(t), "").WithTimeout(100 * time.Millisecond)
	async := auth.NewAsyncActivitySink(sink, 4, nil)
	defer async.Close()

	guard := auth.NewGuard(auth.NewAuthConfig(auth.WithSigningKey("secret"))).WithActivitySink(async)

	start := time.Now()
	_, err := guard.Authorize(context.Background(), "")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

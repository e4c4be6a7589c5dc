// Package redissink records auth activity events on a Redis stream.
package redissink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	auth "github.com/goliatone/go-authentik"
)

// DefaultStream is the stream key used when none is given
const DefaultStream = "authentik:activity"

// DefaultTimeout bounds a single XADD
const DefaultTimeout = 2 * time.Second

// Sink implements auth.ActivitySink with XADD
type Sink struct {
	client redis.Cmdable
	stream  string
	maxLen  int64
	timeout time.Duration
}

var _ auth.ActivitySink = (*Sink)(nil)

// New returns a Sink appending to stream
func New(client redis.Cmdable, stream string) *Sink {
	if stream == "" {
		stream = DefaultStream
	}
	return &Sink{client: client, stream: stream, timeout: DefaultTimeout}
}

// WithTimeout sets the per write deadline, zero disables it
func (s *Sink) WithTimeout(d time.Duration) *Sink {
	if d >= 0 {
		s.timeout = d
	}
	return s
}

// WithMaxLen caps the stream length, trimmed approximately on each write
func (s *Sink) WithMaxLen(n int64) *Sink {
	s.maxLen = n
	return s
}

func (s *Sink) Stream() string {
	return s.stream
}

// Record implements auth.ActivitySink.
func (s *Sink) Record(ctx context.Context, event auth.ActivityEvent) error {
	meta, err := json.Marshal(event.Metadata)
	if err != nil {
		return err
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":        string(event.EventType),
			"username":    event.Username,
			"kind":        string(event.Kind),
			"occurred_at": occurred.UTC().Format(time.RFC3339Nano),
			"metadata":    string(meta),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.client.XAdd(ctx, args).Err()
}

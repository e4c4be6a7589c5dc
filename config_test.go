package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-authentik"
)

func TestNewAuthConfig(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, "alice", cfg.ReferenceUsername())
	assert.Equal(t, "hunter2", cfg.ReferencePassword())
	assert.True(t, cfg.HasBasicAuth())
	assert.Equal(t, []byte(testSecret), cfg.SigningKey())
	assert.Equal(t, time.Hour, cfg.SigningOptions().ExpiresIn)
	assert.Nil(t, cfg.CustomVerifier())
}

func TestNewAuthConfig_PartialBasicAuth(t *testing.T) {
	assert.False(t, auth.NewAuthConfig().HasBasicAuth())
	assert.False(t, auth.NewAuthConfig(auth.WithBasicAuth("alice", "")).HasBasicAuth())
	assert.False(t, auth.NewAuthConfig(auth.WithBasicAuth("", "hunter2")).HasBasicAuth())
	assert.NotPanics(t, func() { auth.NewAuthConfig(nil) })
}

func TestAuthConfig_ReturnsCopies(t *testing.T) {
	audience := []string{"api"}
	cfg := auth.NewAuthConfig(
		auth.WithSigningKey(testSecret),
		auth.WithSigningOptions(auth.SigningOptions{Audience: audience}),
	)

	audience[0] = "changed"
	assert.Equal(t, []string{"api"}, cfg.SigningOptions().Audience)

	key := cfg.SigningKey()
	key[0] = 'X'
	assert.Equal(t, []byte(testSecret), cfg.SigningKey())

	opts := cfg.SigningOptions()
	opts.Audience[0] = "mutated"
	assert.Equal(t, []string{"api"}, cfg.SigningOptions().Audience)
}

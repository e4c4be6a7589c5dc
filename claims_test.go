package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-authentik"
)

func TestClaims_Accessors(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Name: "alice",
	}

	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "jti-1", claims.TokenID())
	assert.True(t, now.Equal(claims.IssuedAt()))
	assert.True(t, now.Add(time.Hour).Equal(claims.Expires()))

	m := claims.Map()
	assert.Equal(t, "alice", m["username"])
	assert.Equal(t, "alice", m["sub"])
	assert.Equal(t, "jti-1", m["jti"])
	assert.Equal(t, float64(now.Add(time.Hour).Unix()), m["exp"])
	assert.NotContains(t, m, "aud")
}

func TestClaims_NilSafe(t *testing.T) {
	var claims *auth.Claims

	assert.Empty(t, claims.Username())
	assert.Empty(t, claims.TokenID())
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
	assert.Empty(t, claims.Map())
}

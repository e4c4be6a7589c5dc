package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-authentik"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected auth.ErrorKind
	}{
		{"nil error", nil, auth.KindNone},
		{"configuration missing", auth.ErrConfigurationMissing, auth.KindConfigurationMissing},
		{"invalid credentials", auth.ErrInvalidCredentials, auth.KindInvalidCredentials},
		{"signing failure", auth.ErrSigningFailure.Clone(), auth.KindSigningFailure},
		{"expired token", auth.ErrTokenExpired, auth.KindExpiredToken},
		{"malformed token", auth.ErrTokenMalformed, auth.KindGenericAuthFailure},
		{"authorization failed", auth.ErrAuthorizationFailed, auth.KindGenericAuthFailure},
		{"foreign error", errors.New("boom"), auth.KindGenericAuthFailure},
		{"foreign rich error", goerrors.New("boom", goerrors.CategoryInternal), auth.KindGenericAuthFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.KindOf(tt.err))
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"structured token expired error", auth.ErrTokenExpired, true},
		{"cloned token expired error", auth.ErrTokenExpired.Clone(), true},
		{"different structured error", auth.ErrInvalidCredentials, false},
		{"plain string mentioning expiry", errors.New("token is expired"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(auth.ErrAuthorizationFailed))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(errors.New("invalid token")))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", auth.ErrorMessage(nil))
	assert.Equal(t, "Basic authentication not configured!", auth.ErrorMessage(auth.ErrConfigurationMissing))
	assert.Equal(t, "Username and/or password invalid!", auth.ErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "Token is expired", auth.ErrorMessage(auth.ErrTokenExpired))
	assert.Equal(t, "Authorization failed", auth.ErrorMessage(auth.ErrAuthorizationFailed))
	assert.Equal(t, "plain", auth.ErrorMessage(errors.New("plain")))
}

func TestRejectionFor(t *testing.T) {
	expired := auth.RejectionFor(auth.ErrTokenExpired)
	assert.Equal(t, 401, expired.Status)
	assert.Equal(t, "Token is expired", expired.Message)

	for _, err := range []error{auth.ErrTokenMalformed, auth.ErrAuthorizationFailed, errors.New("x"), nil} {
		r := auth.RejectionFor(err)
		assert.Equal(t, 401, r.Status)
		assert.Equal(t, "Authorization failed", r.Message)
	}
}

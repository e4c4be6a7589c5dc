package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the payload carried inside an issued token
type Identity struct {
	Username string `json:"username"`
}

// CredentialVerifier checks a username and password pair.
// Implementations report failures through AuthResult, never by panicking.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) AuthResult
}

// VerifierFunc adapts a function to the CredentialVerifier interface
type VerifierFunc func(ctx context.Context, username, password string) AuthResult

// Verify implements CredentialVerifier.
func (f VerifierFunc) Verify(ctx context.Context, username, password string) AuthResult {
	if f == nil {
		return Rejected(ErrConfigurationMissing)
	}
	return f(ctx, username, password)
}

// TokenCodec signs identities into bearer tokens and parses them back
type TokenCodec interface {
	Sign(ctx context.Context, identity Identity) (string, error)
	Verify(ctx context.Context, token string) (*Claims, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHENTIK "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHENTIK "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHENTIK "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHENTIK "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}

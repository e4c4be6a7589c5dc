package auth

import (
	"context"
	"crypto/subtle"
)

// StaticVerifier compares credentials against a single reference pair
type StaticVerifier struct {
	username string
	password string
	logger   Logger
}

// NewStaticVerifier returns a verifier for the given reference credentials
func NewStaticVerifier(username, password string) *StaticVerifier {
	return &StaticVerifier{
		username: username,
		password: password,
		logger:   defLogger{},
	}
}

func (v *StaticVerifier) WithLogger(logger Logger) *StaticVerifier {
	v.logger = normalizeLogger(logger)
	return v
}

// Verify implements CredentialVerifier.
func (v *StaticVerifier) Verify(_ context.Context, username, password string) AuthResult {
	v.logger.Debug("authenticating '%s'", username)

	if v.username == "" || v.password == "" {
		v.logger.Error("basic authentication is not configured")
		return Rejected(ErrConfigurationMissing)
	}

	// compare both fields even when the username already differs
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1

	if userOK && passOK {
		v.logger.Debug("user is authenticated!")
		return Authenticated(username)
	}

	return Rejected(ErrInvalidCredentials)
}

func verifierFromConfig(cfg AuthConfig, logger Logger) CredentialVerifier {
	if custom := cfg.CustomVerifier(); custom != nil {
		return custom
	}
	return NewStaticVerifier(cfg.ReferenceUsername(), cfg.ReferencePassword()).WithLogger(logger)
}

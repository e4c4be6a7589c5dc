package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSigningMethod is used when SigningOptions.Method is empty
const DefaultSigningMethod = "HS256"

// SigningOptions controls the registered claims and algorithm of issued tokens.
// A zero ExpiresIn issues tokens without an exp claim.
type SigningOptions struct {
	Method    string
	ExpiresIn time.Duration
	NotBefore time.Duration
	Issuer    string
	Audience  []string
	// Subject defaults to the authenticated username
	Subject string
	KeyID   string
	// Leeway is the clock skew tolerated when verifying exp and nbf
	Leeway time.Duration
}

func (o SigningOptions) clone() SigningOptions {
	if len(o.Audience) > 0 {
		o.Audience = append([]string(nil), o.Audience...)
	}
	return o
}

func (o SigningOptions) method() string {
	if o.Method == "" {
		return DefaultSigningMethod
	}
	return o.Method
}

func (o SigningOptions) audience() jwt.ClaimStrings {
	if len(o.Audience) == 0 {
		return nil
	}
	aud := make(jwt.ClaimStrings, len(o.Audience))
	copy(aud, o.Audience)
	return aud
}

// AuthConfig holds the process wide authentication settings. It is built
// once with NewAuthConfig and is read only afterwards.
type AuthConfig struct {
	username   string
	password   string
	signingKey []byte
	signing    SigningOptions
	verifier   CredentialVerifier
}

// ConfigOption configures an AuthConfig
type ConfigOption func(*AuthConfig)

// NewAuthConfig returns an AuthConfig. Missing reference credentials are not
// an error here; every authentication attempt reports ErrConfigurationMissing.
func NewAuthConfig(opts ...ConfigOption) AuthConfig {
	cfg := AuthConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithBasicAuth sets the reference credentials
func WithBasicAuth(username, password string) ConfigOption {
	return func(c *AuthConfig) {
		c.username = username
		c.password = password
	}
}

// WithSigningKey sets the HMAC secret used to sign and verify tokens
func WithSigningKey(secret string) ConfigOption {
	return func(c *AuthConfig) {
		c.signingKey = []byte(secret)
	}
}

// WithSigningOptions sets the token options
func WithSigningOptions(opts SigningOptions) ConfigOption {
	return func(c *AuthConfig) {
		c.signing = opts.clone()
	}
}

// WithCustomVerifier replaces the reference credential comparison
func WithCustomVerifier(v CredentialVerifier) ConfigOption {
	return func(c *AuthConfig) {
		c.verifier = v
	}
}

func (c AuthConfig) ReferenceUsername() string {
	return c.username
}

func (c AuthConfig) ReferencePassword() string {
	return c.password
}

// HasBasicAuth reports whether both reference credentials are set
func (c AuthConfig) HasBasicAuth() bool {
	return c.username != "" && c.password != ""
}

// SigningKey returns a copy of the secret
func (c AuthConfig) SigningKey() []byte {
	return append([]byte(nil), c.signingKey...)
}

func (c AuthConfig) SigningOptions() SigningOptions {
	return c.signing.clone()
}

// CustomVerifier returns the configured verifier, nil when the reference
// credential comparison is used.
func (c AuthConfig) CustomVerifier() CredentialVerifier {
	return c.verifier
}

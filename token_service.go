package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService is the golang-jwt backed TokenCodec. It only supports HMAC
// signing methods since the process secret is a shared key.
type TokenService struct {
	signingKey []byte
	opts       SigningOptions
	logger     Logger
	now        func() time.Time
}

var _ TokenCodec = (*TokenService)(nil)

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, opts SigningOptions, logger Logger) *TokenService {
	return &TokenService{
		signingKey: append([]byte(nil), signingKey...),
		opts:       opts.clone(),
		logger:     normalizeLogger(logger),
		now:        time.Now,
	}
}

// NewTokenServiceFromConfig builds a TokenService from the secret and
// signing options held by cfg.
func NewTokenServiceFromConfig(cfg AuthConfig, logger Logger) *TokenService {
	return NewTokenService(cfg.signingKey, cfg.signing, logger)
}

// WithClock overrides the time source used to stamp and validate tokens
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Sign creates a JWT for identity
func (ts *TokenService) Sign(ctx context.Context, identity Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ts.logger.Debug("creating jwt")

	method, err := ts.signingMethod()
	if err != nil {
		ts.logger.Error("token service signing method: %s", err)
		return "", err
	}

	if len(ts.signingKey) == 0 {
		return "", errors.New("signing key is empty")
	}

	token := jwt.NewWithClaims(method, ts.newClaims(identity))
	if ts.opts.KeyID != "" {
		token.Header["kid"] = ts.opts.KeyID
	}

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		ts.logger.Error("token service sign: %s", err)
		return "", err
	}

	ts.logger.Debug("returning token")
	return signed, nil
}

// Verify parses and validates a token string. Expired tokens yield
// ErrTokenExpired, every other failure ErrTokenMalformed.
func (ts *TokenService) Verify(ctx context.Context, raw string) (*Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, withCause(ErrTokenMalformed, err, nil)
	}

	method, err := ts.signingMethod()
	if err != nil {
		return nil, withCause(ErrTokenMalformed, err, nil)
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token service verify encountered unexpected signing method %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, ts.parserOptions(method)...)

	if err != nil {
		ts.logger.Debug("token service verify: %s", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, withCause(ErrTokenExpired, err, nil)
		}
		return nil, withCause(ErrTokenMalformed, err, nil)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		ts.logger.Error("token service could not decode claims")
		return nil, ErrTokenMalformed.Clone()
	}

	return claims, nil
}

func (ts *TokenService) newClaims(identity Identity) *Claims {
	now := ts.now()

	subject := ts.opts.Subject
	if subject == "" {
		subject = identity.Username
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.opts.Issuer,
			Subject:  subject,
			Audience: ts.opts.audience(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Name: identity.Username,
	}

	if ts.opts.ExpiresIn != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.opts.ExpiresIn))
	}

	if ts.opts.NotBefore > 0 {
		claims.NotBefore = jwt.NewNumericDate(now.Add(ts.opts.NotBefore))
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func (ts *TokenService) parserOptions(method jwt.SigningMethod) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.opts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.opts.Issuer))
	}
	if len(ts.opts.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(ts.opts.Audience[0]))
	}
	if ts.opts.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(ts.opts.Leeway))
	}
	return opts
}

func (ts *TokenService) signingMethod() (jwt.SigningMethod, error) {
	name := ts.opts.method()
	method := jwt.GetSigningMethod(name)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing method %q", name)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %q requires an HMAC secret", name)
	}
	return method, nil
}

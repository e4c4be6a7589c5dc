package auth

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-authentik"

// Authenticator verifies credentials and issues tokens
type Authenticator struct {
	config       AuthConfig
	verifier     CredentialVerifier
	codec        TokenCodec
	logger       Logger
	activitySink ActivitySink
	tracer       trace.Tracer
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	logger := defLogger{}
	return &Authenticator{
		config:       cfg,
		verifier:     verifierFromConfig(cfg, logger),
		codec:        NewTokenServiceFromConfig(cfg, logger),
		logger:       logger,
		activitySink: noopActivitySink{},
		tracer:       otel.Tracer(tracerName),
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	a.logger = normalizeLogger(logger)
	// rebuild the defaults so they share the logger
	a.verifier = verifierFromConfig(a.config, a.logger)
	if _, ok := a.codec.(*TokenService); ok {
		a.codec = NewTokenServiceFromConfig(a.config, a.logger)
	}
	return a
}

// WithTokenCodec replaces the golang-jwt TokenService
func (a *Authenticator) WithTokenCodec(codec TokenCodec) *Authenticator {
	if codec != nil {
		a.codec = codec
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Authenticator) WithActivitySink(sink ActivitySink) *Authenticator {
	a.activitySink = normalizeActivitySink(sink)
	return a
}

// WithTracer overrides the global otel tracer
func (a *Authenticator) WithTracer(tracer trace.Tracer) *Authenticator {
	if tracer != nil {
		a.tracer = tracer
	}
	return a
}

// TokenCodec returns the codec used to sign tokens
func (a *Authenticator) TokenCodec() TokenCodec {
	return a.codec
}

// Authenticate checks username and password with the configured verifier
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) AuthResult {
	result := a.verifier.Verify(ctx, username, password)

	if result.Succeeded && result.Identity == nil {
		a.logger.Error("credential verifier reported success without identity")
		return Rejected(ErrInvalidCredentials)
	}

	if !result.Succeeded {
		switch result.Kind() {
		case KindConfigurationMissing, KindInvalidCredentials:
		case KindNone:
			return Rejected(ErrInvalidCredentials)
		default:
			a.logger.Debug("credential verifier rejected: %s", result.Err)
			return Rejected(withCause(ErrInvalidCredentials, result.Err, nil))
		}
	}

	return result
}

// Login authenticates the credentials and, only on success, signs a token
// for the resulting identity. Failures are returned in LoginResult.Err.
func (a *Authenticator) Login(ctx context.Context, username, password string) LoginResult {
	a.logger.Debug("login method called")

	ctx, span := a.tracer.Start(ctx, "authentik.Login")
	defer span.End()

	start := time.Now()
	result := a.login(ctx, username, password)

	RecordLogin(resultLabel(result.Err, ResultSuccess), time.Since(start))

	if result.Err != nil {
		span.SetStatus(codes.Error, ErrorMessage(result.Err))
		span.SetAttributes(attribute.String("auth.error_kind", string(result.Kind())))
		recordActivity(ctx, a.activitySink, a.logger, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Username:  username,
			Kind:      result.Kind(),
			Metadata: map[string]any{
				"error": ErrorMessage(result.Err),
			},
		})
		return result
	}

	span.SetAttributes(attribute.String("auth.username", username))
	recordActivity(ctx, a.activitySink, a.logger, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Username:  username,
	})

	return result
}

func (a *Authenticator) login(ctx context.Context, username, password string) LoginResult {
	authenticated := a.Authenticate(ctx, username, password)
	if !authenticated.Succeeded {
		a.logger.Debug("user is not authenticated")
		return LoginResult{Err: authenticated.Err}
	}

	a.logger.Debug("user is authenticated")

	token, err := a.Sign(ctx, *authenticated.Identity)
	if err != nil {
		return LoginResult{Err: err}
	}

	return LoginResult{Token: token}
}

// Sign issues a token for identity. Codec errors are wrapped in ErrSigningFailure.
func (a *Authenticator) Sign(ctx context.Context, identity Identity) (string, error) {
	token, err := a.codec.Sign(ctx, identity)
	if err != nil {
		a.logger.Error("sign token for '%s': %s", identity.Username, err)
		return "", withCause(ErrSigningFailure, err, map[string]any{
			"username": identity.Username,
		})
	}
	return token, nil
}

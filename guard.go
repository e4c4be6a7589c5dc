package auth

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAuthScheme is the only accepted Authorization scheme
const DefaultAuthScheme = "Bearer"

// Rejection is the HTTP shaped outcome of a failed authorization
type Rejection struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// RejectionFor maps an authorization error to its response. Expired tokens
// get a dedicated message, everything else is reported generically.
func RejectionFor(err error) Rejection {
	if IsTokenExpiredError(err) {
		return Rejection{Status: http.StatusUnauthorized, Message: ErrTokenExpired.Message}
	}
	return Rejection{Status: http.StatusUnauthorized, Message: ErrAuthorizationFailed.Message}
}

// Guard validates bearer tokens presented by inbound requests
type Guard struct {
	// config is set when the guard owns its TokenService
	config       *AuthConfig
	codec        TokenCodec
	scheme       string
	logger       Logger
	activitySink ActivitySink
	tracer       trace.Tracer
}

// NewGuard returns a Guard verifying tokens with the secret in cfg
func NewGuard(cfg AuthConfig) *Guard {
	g := NewGuardWithCodec(NewTokenServiceFromConfig(cfg, defLogger{}))
	g.config = &cfg
	return g
}

// NewGuardWithCodec returns a Guard that delegates verification to codec
func NewGuardWithCodec(codec TokenCodec) *Guard {
	return &Guard{
		codec:        codec,
		scheme:       DefaultAuthScheme,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		tracer:       otel.Tracer(tracerName),
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	g.logger = normalizeLogger(logger)
	if g.config != nil {
		g.codec = NewTokenServiceFromConfig(*g.config, g.logger)
	}
	return g
}

// WithActivitySink configures an ActivitySink for access decisions.
func (g *Guard) WithActivitySink(sink ActivitySink) *Guard {
	g.activitySink = normalizeActivitySink(sink)
	return g
}

// WithTracer overrides the global otel tracer
func (g *Guard) WithTracer(tracer trace.Tracer) *Guard {
	if tracer != nil {
		g.tracer = tracer
	}
	return g
}

// Authorize runs the header through the guard. It returns the decoded
// claims, ErrTokenExpired, or ErrAuthorizationFailed.
func (g *Guard) Authorize(ctx context.Context, header string) (*Claims, error) {
	ctx, span := g.tracer.Start(ctx, "authentik.Authorize")
	defer span.End()

	g.logger.Debug("verifying token")

	claims, err := g.authorize(ctx, header)

	RecordAccessDecision(resultLabel(err, ResultGranted))

	if err != nil {
		span.SetStatus(codes.Error, ErrorMessage(err))
		span.SetAttributes(attribute.String("auth.error_kind", string(KindOf(err))))
		recordActivity(ctx, g.activitySink, g.logger, ActivityEvent{
			EventType: ActivityEventAccessDenied,
			Kind:      KindOf(err),
			Metadata: map[string]any{
				"error": ErrorMessage(err),
			},
		})
		return nil, err
	}

	span.SetAttributes(attribute.String("auth.username", claims.Username()))
	recordActivity(ctx, g.activitySink, g.logger, ActivityEvent{
		EventType: ActivityEventAccessGranted,
		Username:  claims.Username(),
		Metadata: map[string]any{
			"jti": claims.TokenID(),
		},
	})

	return claims, nil
}

func (g *Guard) authorize(ctx context.Context, header string) (*Claims, error) {
	if header == "" {
		g.logger.Debug("authorization token does not exist")
		return nil, ErrAuthorizationFailed.Clone()
	}

	raw, ok := ParseAuthorization(header, g.scheme)
	if !ok {
		g.logger.Debug("authorization header is not a %s token", g.scheme)
		return nil, withCause(ErrAuthorizationFailed, nil, map[string]any{
			"reason": "unsupported authorization scheme",
		})
	}

	g.logger.Debug("token exists, checking for validity")
	return g.Verify(ctx, raw)
}

// Verify checks a raw token without an Authorization header around it
func (g *Guard) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := g.codec.Verify(ctx, raw)
	if err != nil {
		if IsTokenExpiredError(err) {
			g.logger.Debug("token is expired")
			return nil, err
		}
		g.logger.Debug("token verification failed: %s", err)
		return nil, withCause(ErrAuthorizationFailed, err, nil)
	}

	g.logger.Debug("authorization succeeded")
	return claims, nil
}

// ParseAuthorization splits "<scheme> <token>" and reports whether the
// scheme matched and a token was present.
func ParseAuthorization(header, scheme string) (string, bool) {
	kind, token, found := strings.Cut(header, " ")
	if !found || kind != scheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

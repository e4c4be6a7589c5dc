package jwtware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-authentik"
)

// DefaultContextKey is the fiber Locals key holding the decoded token
const DefaultContextKey = "authentik"

// Authorizer mirrors auth.Guard so tests and callers can swap the implementation
type Authorizer interface {
	Authorize(ctx context.Context, header string) (*auth.Claims, error)
}

type Config struct {
	// Authorizer is required
	Authorizer Authorizer

	// Filter skips the middleware when it returns true
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler

	// HTTPErrorHandler is used by NewHTTP
	HTTPErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	ContextKey string
	Header     string
}

// New returns a fiber handler gating requests on a bearer token.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		claims, err := cfg.Authorizer.Authorize(c.UserContext(), c.Get(cfg.Header))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(auth.WithClaimsContext(c.UserContext(), claims))

		return cfg.SuccessHandler(c)
	}
}

// NewHTTP returns a net/http middleware with the same semantics as New.
// The decoded token is available through auth.ClaimsFromContext.
func NewHTTP(config ...Config) func(http.Handler) http.Handler {
	cfg := GetDefaultConfig(config...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cfg.Authorizer.Authorize(r.Context(), r.Header.Get(cfg.Header))
			if err != nil {
				cfg.HTTPErrorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaimsContext(r.Context(), claims)))
		})
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Authorizer == nil {
		panic("AUTHENTIK: JWT middleware configuration: Authorizer is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			rejection := auth.RejectionFor(err)
			return c.Status(rejection.Status).JSON(rejection)
		}
	}

	if cfg.HTTPErrorHandler == nil {
		cfg.HTTPErrorHandler = writeRejection
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.Header == "" {
		cfg.Header = fiber.HeaderAuthorization
	}

	return cfg
}

// ClaimsFromFiber returns the decoded token stored by New
func ClaimsFromFiber(c *fiber.Ctx, key ...string) (*auth.Claims, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	claims, ok := c.Locals(k).(*auth.Claims)
	return claims, ok && claims != nil
}

func writeRejection(w http.ResponseWriter, _ *http.Request, err error) {
	rejection := auth.RejectionFor(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rejection.Status)
	_ = json.NewEncoder(w).Encode(rejection)
}

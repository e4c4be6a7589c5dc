package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the decoded token attached to authorized requests
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"username"`
}

// Username returns the authenticated username
func (c *Claims) Username() string {
	if c == nil {
		return ""
	}
	return c.Name
}

// TokenID returns the jti claim
func (c *Claims) TokenID() string {
	if c == nil {
		return ""
	}
	return c.ID
}

// Expires returns the expiration time, zero when the token never expires
func (c *Claims) Expires() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c == nil || c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// Map returns the decoded payload keyed by claim name
func (c *Claims) Map() map[string]any {
	out := map[string]any{}
	if c == nil {
		return out
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil || claims.ID != "" {
		return
	}
	claims.ID = uuid.NewString()
}

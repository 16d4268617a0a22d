package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the back office cares about.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles,omitempty"`
	} `json:"realm_access,omitempty"`
}

// ParseClaims reads the claims of a JWT without checking its signature.
// The back office only forwards tokens; the backend verifies them.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return claims, nil
}

// Expiry returns the exp claim, or the zero time when the token has none.
func (c *Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// HasRole reports whether role is one of the realm roles, ignoring case.
func (c *Claims) HasRole(role string) bool {
	role = strings.TrimSpace(role)
	for _, r := range c.RealmAccess.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

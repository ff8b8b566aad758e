// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	AccountID      int64  `json:"account_id"`
	Role           string `json:"role"`
	ClientID       *int64 `json:"client_id,omitempty"`
	SessionPurpose string `json:"session_purpose"` // access, refresh
	jwt.RegisteredClaims
}

// IsEmployee reports whether the token belongs to internal staff.
func (c *Claims) IsEmployee() bool {
	return c.Role == "employee" || c.Role == "admin"
}

// IsClient reports whether the token belongs to a vendor-side user.
func (c *Claims) IsClient() bool {
	return c.Role == "client"
}

// IsAdmin reports whether the token belongs to an administrator.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}

// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/pkg/jwt"
	"worklink-service/internal/pkg/response"
	"worklink-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxPrincipal   = "principal"
	ctxJTI         = "jti"
	ctxTokenExpiry = "token_expiry"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
	sessions *session.Manager
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
	}
}

// Auth validates the bearer token, rejects revoked sessions, and resolves
// the caller into a Principal for downstream handlers.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		blacklisted, err := m.sessions.IsTokenBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "session check failed", err)
			return
		}
		if blacklisted {
			response.Error(c, http.StatusUnauthorized, "session has been revoked", nil)
			return
		}

		if _, err := m.sessions.GetSession(c.Request.Context(), claims.AccountID, claims.ID); err != nil {
			response.Error(c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		c.Set(ctxPrincipal, account.Principal{
			AccountID: claims.AccountID,
			Role:      account.Role(claims.Role),
			ClientID:  claims.ClientID,
		})
		c.Set(ctxJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireEmployee admits staff (employee or admin). Use after Auth().
func (m *AuthMiddleware) RequireEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !p.IsEmployee() {
			response.Error(c, http.StatusForbidden, "staff access required", nil)
			return
		}
		c.Next()
	}
}

// RequireClient admits client-side accounts. Use after Auth().
func (m *AuthMiddleware) RequireClient() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !p.IsClient() {
			response.Error(c, http.StatusForbidden, "client access required", nil)
			return
		}
		c.Next()
	}
}

// RequireAdmin admits admins only. Use after Auth().
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !p.IsAdmin() {
			response.Error(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// internal/middleware/helpers.go
package middleware

import (
	"time"

	"worklink-service/internal/domain/account"

	"github.com/gin-gonic/gin"
)

// GetPrincipal returns the authenticated principal, if any.
func GetPrincipal(c *gin.Context) (account.Principal, bool) {
	v, exists := c.Get(ctxPrincipal)
	if !exists {
		return account.Principal{}, false
	}
	p, ok := v.(account.Principal)
	return p, ok
}

// MustGetPrincipal returns the principal or panics. Only call behind Auth().
func MustGetPrincipal(c *gin.Context) account.Principal {
	p, ok := GetPrincipal(c)
	if !ok {
		panic("principal not found in context")
	}
	return p
}

// MustGetJTI returns the current token's id or panics. Only call behind Auth().
func MustGetJTI(c *gin.Context) string {
	v, exists := c.Get(ctxJTI)
	if !exists {
		panic("jti not found in context")
	}
	jti, ok := v.(string)
	if !ok {
		panic("jti has wrong type in context")
	}
	return jti
}

// GetTokenExpiry returns the current token's expiry when known.
func GetTokenExpiry(c *gin.Context) (time.Time, bool) {
	v, exists := c.Get(ctxTokenExpiry)
	if !exists {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

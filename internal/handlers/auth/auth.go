// internal/handlers/auth/auth.go
package auth

import (
	"net/http"
	"time"

	"worklink-service/internal/domain/account"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an account and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid login request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)
	jti := middleware.MustGetJTI(c)

	expiry, ok := middleware.GetTokenExpiry(c)
	if !ok {
		expiry = time.Now().Add(24 * time.Hour)
	}

	if err := h.authService.Logout(c.Request.Context(), p.AccountID, jti, expiry); err != nil {
		response.FromError(c, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	acct, err := h.authService.Me(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", acct)
}

// ChangePassword updates the caller's password and revokes their sessions.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req account.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid change password request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), p, &req); err != nil {
		response.FromError(c, "failed to change password", err)
		return
	}

	response.Success(c, http.StatusOK, "password changed, please log in again", nil)
}

// CreateAccount registers a new account. Admin only.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req account.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid account request", err)
		return
	}

	acct, err := h.authService.CreateAccount(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to create account", err)
		return
	}

	response.Success(c, http.StatusCreated, "account created", acct)
}

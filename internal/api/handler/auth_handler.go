package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/service"
	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login authenticates with email and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "invalid email or password")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new token pair. The
// old refresh token is revoked.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, 11002, "invalid refresh token")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout revokes the caller's access token and, when supplied, the
// refresh token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	// Refresh token is optional here; the access token alone still
	// gets revoked.
	var req dto.RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	jti, expiry := getAccessToken(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiry, req.RefreshToken); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ChangePassword updates the caller's password.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.BadRequest(c, 11003, "current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 14001, "user not found")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// GoogleAuthURL returns the Google consent screen URL.
// GET /api/v1/auth/google
func (h *AuthHandler) GoogleAuthURL(c *gin.Context) {
	result, err := h.authSvc.GoogleAuthURL(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSSODisabled) {
			response.BadRequest(c, 11004, "google sign-in is not configured")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// GoogleCallback completes the OAuth flow and issues a token pair.
// Only users who already hold an account can sign in this way.
// GET /api/v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.authSvc.GoogleCallback(c.Request.Context(), req.Code, req.State)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSSODisabled):
			response.BadRequest(c, 11004, "google sign-in is not configured")
		case errors.Is(err, service.ErrSSOStateMismatch):
			response.BadRequest(c, 11005, "oauth state mismatch")
		case errors.Is(err, service.ErrSSOUnknownAccount):
			response.Forbidden(c, 11006, "no account for this google identity; ask an admin for an invitation")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/service"
	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// UserHandler serves the current-user endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the caller's profile.
// GET /api/v1/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 14001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpdatePreferences updates the caller's interface language.
// PUT /api/v1/me/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.userSvc.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 14001, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

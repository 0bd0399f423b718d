package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/service"
	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// InvitationHandler serves the invitation endpoints. Create and List
// are admin-only; Validate and Accept are public since they complete
// signup for people without an account yet.
type InvitationHandler struct {
	invitationSvc service.InvitationService
}

// NewInvitationHandler creates the InvitationHandler.
func NewInvitationHandler(invitationSvc service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationSvc: invitationSvc}
}

// Create invites an email address and mails the invitation link.
// POST /api/v1/admin/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.invitationSvc.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 13001, "email already registered or invited")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// List returns all invitations, newest first.
// GET /api/v1/admin/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	result, err := h.invitationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Validate tells the signup page whether a token can still be
// accepted.
// GET /api/v1/invitations/:token
func (h *InvitationHandler) Validate(c *gin.Context) {
	result, err := h.invitationSvc.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInvitationNotFound) {
			response.NotFound(c, 13002, "invitation not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Accept completes registration for a valid token and logs the new
// user in.
// POST /api/v1/invitations/:token/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.invitationSvc.Accept(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			response.NotFound(c, 13002, "invitation not found")
		case errors.Is(err, service.ErrInvitationExpired):
			response.BadRequest(c, 13003, "invitation has expired")
		case errors.Is(err, service.ErrInvitationAccepted):
			response.BadRequest(c, 13004, "invitation was already accepted")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

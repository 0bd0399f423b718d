package handler

import "github.com/Kasperversteeg/kade-shifts/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	TimeEntry  *TimeEntryHandler
	Invitation *InvitationHandler
	Report     *ReportHandler
}

// NewHandler creates the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		TimeEntry:  NewTimeEntryHandler(svc.TimeEntry),
		Invitation: NewInvitationHandler(svc.Invitation),
		Report:     NewReportHandler(svc.Report),
	}
}

package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/service"
	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// TimeEntryHandler serves the caller's own shift entries.
type TimeEntryHandler struct {
	entrySvc service.TimeEntryService
}

// NewTimeEntryHandler creates the TimeEntryHandler.
func NewTimeEntryHandler(entrySvc service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entrySvc: entrySvc}
}

// writeDownload sets the file download headers and writes the buffer.
func writeDownload(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// bindMonth reads the optional ?month=YYYY-MM query. Reports false
// after writing a 400 when the value is malformed.
func bindMonth(c *gin.Context) (string, bool) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "month must be formatted as YYYY-MM")
		return "", false
	}
	return q.Month, true
}

// Create logs a new shift entry for the caller.
// POST /api/v1/time-entries
func (h *TimeEntryHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.entrySvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.Created(c, result)
}

// Update edits one of the caller's entries; total hours are
// recomputed.
// PUT /api/v1/time-entries/:id
func (h *TimeEntryHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.entrySvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete removes one of the caller's entries.
// DELETE /api/v1/time-entries/:id
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.entrySvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMonth returns the caller's entries for one month, newest first,
// with the month total.
// GET /api/v1/time-entries?month=YYYY-MM
func (h *TimeEntryHandler) ListMonth(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	result, err := h.entrySvc.ListMonth(c.Request.Context(), userID, month)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportCSV downloads the caller's month as CSV.
// GET /api/v1/time-entries/export/csv?month=YYYY-MM
func (h *TimeEntryHandler) ExportCSV(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.entrySvc.ExportCSV(c.Request.Context(), userID, month)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	writeDownload(c, buf, filename, "text/csv; charset=utf-8")
}

// ExportICS downloads the caller's month as an iCalendar file.
// GET /api/v1/time-entries/export/ics?month=YYYY-MM
func (h *TimeEntryHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.entrySvc.ExportICS(c.Request.Context(), userID, month)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	writeDownload(c, buf, filename, "text/calendar; charset=utf-8")
}

func (h *TimeEntryHandler) handleEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 12001, "time entry not found")
	case errors.Is(err, service.ErrEntryForbidden):
		response.Forbidden(c, 12002, "time entry belongs to another user")
	case errors.Is(err, service.ErrEntryDateTaken):
		response.Conflict(c, 12003, "an entry for this date already exists")
	case errors.Is(err, service.ErrInvalidShiftTime):
		response.BadRequest(c, 12004, "shift times must be HH:MM on a 24-hour clock")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 12005, "month must be formatted as YYYY-MM")
	default:
		response.InternalError(c)
	}
}

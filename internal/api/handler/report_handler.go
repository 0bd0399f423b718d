package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kasperversteeg/kade-shifts/internal/service"
	"github.com/Kasperversteeg/kade-shifts/pkg/response"
)

// ReportHandler serves the admin reporting endpoints.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates the ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Overview returns every user's monthly totals plus the grand total.
// Users without entries appear with zero hours.
// GET /api/v1/admin/overview?month=YYYY-MM
func (h *ReportHandler) Overview(c *gin.Context) {
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Overview(c.Request.Context(), month)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// UserDetail returns one user's entries for the month.
// GET /api/v1/admin/users/:id?month=YYYY-MM
func (h *ReportHandler) UserDetail(c *gin.Context) {
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.UserDetail(c.Request.Context(), c.Param("id"), month)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// SendReport mails the month summary to the requesting admin.
// POST /api/v1/admin/send-report?month=YYYY-MM
func (h *ReportHandler) SendReport(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	if err := h.reportSvc.SendMonthlyReport(c.Request.Context(), adminID, month); err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, nil)
}

// ExportCSV downloads the whole team's month as CSV.
// GET /api/v1/admin/export/csv?month=YYYY-MM
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportTeamCSV(c.Request.Context(), month)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	writeDownload(c, buf, filename, "text/csv; charset=utf-8")
}

// ExportXLSX downloads the whole team's month as an Excel workbook.
// GET /api/v1/admin/export/xlsx?month=YYYY-MM
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportTeamXLSX(c.Request.Context(), month)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	writeDownload(c, buf, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportPDF downloads the month report as a PDF document.
// GET /api/v1/admin/export/pdf?month=YYYY-MM
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	month, ok := bindMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportPDF(c.Request.Context(), month)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	writeDownload(c, buf, filename, "application/pdf")
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 12005, "month must be formatted as YYYY-MM")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14001, "user not found")
	default:
		response.InternalError(c)
	}
}

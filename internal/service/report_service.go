package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/hours"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/mailer"
)

// ReportService is the admin's read-only view over everyone's hours:
// the month overview, per-user detail, file exports and the emailed
// monthly summary. Admins never write other users' entries.
type ReportService interface {
	Overview(ctx context.Context, month string) (*dto.OverviewResponse, error)
	UserDetail(ctx context.Context, userID, month string) (*dto.UserDetailResponse, error)
	SendMonthlyReport(ctx context.Context, adminID, month string) error
	ExportTeamCSV(ctx context.Context, month string) (*bytes.Buffer, string, error)
	ExportTeamXLSX(ctx context.Context, month string) (*bytes.Buffer, string, error)
	ExportPDF(ctx context.Context, month string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewReportService creates the ReportService.
func NewReportService(repo *repository.Repository, mail mailer.Mailer, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, mail: mail, logger: logger}
}

// monthData is the roster plus the month's entries, loaded once and
// sliced differently by each report.
type monthData struct {
	label   string
	users   []model.User // role=user, ordered by name
	entries []model.TimeEntry
	summary hours.Summary
}

func (s *reportService) loadMonth(ctx context.Context, month string, order repository.DateOrder) (*monthData, error) {
	year, m, label, err := parseMonth(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	users, err := s.repo.User.ListByRole(ctx, model.RoleUser)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.TimeEntry.ListMonth(ctx, year, m, order)
	if err != nil {
		s.logger.Error("list month entries failed", zap.Error(err))
		return nil, err
	}

	userIDs := make([]string, len(users))
	for i, u := range users {
		userIDs[i] = u.UserID
	}

	return &monthData{
		label:   label,
		users:   users,
		entries: entries,
		summary: hours.AggregateMonthWithRoster(entries, userIDs),
	}, nil
}

// entriesByUser groups the month's entries preserving their order.
func (d *monthData) entriesByUser() map[string][]model.TimeEntry {
	grouped := make(map[string][]model.TimeEntry, len(d.users))
	for _, entry := range d.entries {
		grouped[entry.UserID] = append(grouped[entry.UserID], entry)
	}
	return grouped
}

func (s *reportService) Overview(ctx context.Context, month string) (*dto.OverviewResponse, error) {
	data, err := s.loadMonth(ctx, month, repository.DateAsc)
	if err != nil {
		return nil, err
	}

	resp := &dto.OverviewResponse{
		Month:      data.label,
		Users:      make([]dto.OverviewRow, 0, len(data.users)),
		GrandTotal: data.summary.GrandTotal.StringFixed(2),
	}
	for _, user := range data.users {
		total := data.summary.PerUser[user.UserID]
		resp.Users = append(resp.Users, dto.OverviewRow{
			UserID:       user.UserID,
			Name:         user.Name,
			Email:        user.Email,
			TotalHours:   total.TotalHours.StringFixed(2),
			EntriesCount: total.EntriesCount,
		})
	}

	return resp, nil
}

func (s *reportService) UserDetail(ctx context.Context, userID, month string) (*dto.UserDetailResponse, error) {
	year, m, label, err := parseMonth(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.TimeEntry.ListMonthByUser(ctx, userID, year, m, repository.DateDesc)
	if err != nil {
		s.logger.Error("list month entries failed", zap.Error(err))
		return nil, err
	}

	summary := hours.AggregateMonth(entries)

	resp := &dto.UserDetailResponse{
		User:       userResponse(user),
		Month:      label,
		Entries:    make([]dto.TimeEntryResponse, 0, len(entries)),
		MonthTotal: summary.GrandTotal.StringFixed(2),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, timeEntryResponse(&entries[i]))
	}

	return resp, nil
}

// SendMonthlyReport mails the month summary to the requesting admin's
// own address.
func (s *reportService) SendMonthlyReport(ctx context.Context, adminID, month string) error {
	admin, err := s.repo.User.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("lookup admin failed", zap.Error(err))
		return err
	}

	data, err := s.loadMonth(ctx, month, repository.DateAsc)
	if err != nil {
		return err
	}

	rows := make([]mailer.ReportRow, 0, len(data.users))
	for _, user := range data.users {
		total := data.summary.PerUser[user.UserID]
		rows = append(rows, mailer.ReportRow{
			Name:         user.Name,
			Email:        user.Email,
			TotalHours:   total.TotalHours.StringFixed(2),
			EntriesCount: total.EntriesCount,
		})
	}

	if err := s.mail.SendMonthlyReport(admin.Email, monthName(data.label), rows, data.summary.GrandTotal.StringFixed(2)); err != nil {
		return err
	}

	s.logger.Info("monthly report sent",
		zap.String("to", admin.Email),
		zap.String("month", data.label),
	)
	return nil
}

// ExportTeamCSV renders every user's entries for the month as one CSV,
// grouped by user, oldest entry first.
func (s *reportService) ExportTeamCSV(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	data, err := s.loadMonth(ctx, month, repository.DateAsc)
	if err != nil {
		return nil, "", err
	}
	grouped := data.entriesByUser()

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"User", "Date", "Start", "End", "Break (min)", "Total Hours"})
	for _, user := range data.users {
		for _, entry := range grouped[user.UserID] {
			_ = w.Write([]string{
				user.Name,
				entry.Date.Format("2006-01-02"),
				entry.ShiftStart.String(),
				entry.ShiftEnd.String(),
				fmt.Sprintf("%d", entry.BreakMinutes),
				entry.TotalHours.StringFixed(2),
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf, fmt.Sprintf("team-hours-%s.csv", data.label), nil
}

// ExportTeamXLSX renders the same table as ExportTeamCSV as an Excel
// workbook, with per-user totals and the grand total appended.
func (s *reportService) ExportTeamXLSX(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	data, err := s.loadMonth(ctx, month, repository.DateAsc)
	if err != nil {
		return nil, "", err
	}
	grouped := data.entriesByUser()

	f := excelize.NewFile()
	sheet := "Team Hours"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"User", "Date", "Start", "End", "Break (min)", "Total Hours"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, user := range data.users {
		for _, entry := range grouped[user.UserID] {
			values := []interface{}{
				user.Name,
				entry.Date.Format("2006-01-02"),
				entry.ShiftStart.String(),
				entry.ShiftEnd.String(),
				entry.BreakMinutes,
				entry.TotalHours.StringFixed(2),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		total := data.summary.PerUser[user.UserID]
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s total", user.Name))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), total.TotalHours.StringFixed(2))
		row++
	}

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Grand total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), data.summary.GrandTotal.StringFixed(2))

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", err
	}

	return buf, fmt.Sprintf("team-hours-%s.xlsx", data.label), nil
}

// ExportPDF renders the month report as a PDF document: one section
// per user with an entry table and subtotal, grand total at the end.
func (s *reportService) ExportPDF(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	data, err := s.loadMonth(ctx, month, repository.DateAsc)
	if err != nil {
		return nil, "", err
	}
	grouped := data.entriesByUser()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Monthly Hours Report - %s", monthName(data.label)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Monthly Hours Report - %s", monthName(data.label)))
	pdf.Ln(14)

	colWidths := []float64{32, 24, 24, 28, 30}
	colHeaders := []string{"Date", "Start", "End", "Break (min)", "Total Hours"}

	for _, user := range data.users {
		total := data.summary.PerUser[user.UserID]

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s (%s)", user.Name, user.Email))
		pdf.Ln(8)

		entries := grouped[user.UserID]
		if len(entries) == 0 {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(0, 6, "No entries this month")
			pdf.Ln(10)
			continue
		}

		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range colHeaders {
			pdf.CellFormat(colWidths[i], 6, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, entry := range entries {
			cells := []string{
				entry.Date.Format("2006-01-02"),
				entry.ShiftStart.String(),
				entry.ShiftEnd.String(),
				fmt.Sprintf("%d", entry.BreakMinutes),
				entry.TotalHours.StringFixed(2),
			}
			for i, c := range cells {
				pdf.CellFormat(colWidths[i], 6, c, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 8, fmt.Sprintf("Subtotal: %s hours over %d entries", total.TotalHours.StringFixed(2), total.EntriesCount))
		pdf.Ln(12)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Grand total: %s hours", data.summary.GrandTotal.StringFixed(2)))

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("write pdf failed", zap.Error(err))
		return nil, "", err
	}

	return buf, fmt.Sprintf("report-%s.pdf", data.label), nil
}

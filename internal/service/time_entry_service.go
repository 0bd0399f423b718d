package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/internal/dto"
	"github.com/Kasperversteeg/kade-shifts/internal/hours"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/timeofday"
)

var (
	ErrEntryNotFound    = errors.New("time entry not found")
	ErrEntryForbidden   = errors.New("time entry belongs to another user")
	ErrEntryDateTaken   = errors.New("an entry for this date already exists")
	ErrInvalidShiftTime = errors.New("invalid shift time")
	ErrInvalidMonth     = errors.New("invalid month")
)

// TimeEntryService manages a user's own shift entries. Every operation
// takes the acting user explicitly; entries are only ever written by
// their owner.
type TimeEntryService interface {
	Create(ctx context.Context, userID string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error)
	Update(ctx context.Context, userID, entryID string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error)
	Delete(ctx context.Context, userID, entryID string) error
	ListMonth(ctx context.Context, userID, month string) (*dto.MonthEntriesResponse, error)
	ExportCSV(ctx context.Context, userID, month string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, userID, month string) (*bytes.Buffer, string, error)
}

type timeEntryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeEntryService creates the TimeEntryService.
func NewTimeEntryService(repo *repository.Repository, logger *zap.Logger) TimeEntryService {
	return &timeEntryService{repo: repo, logger: logger}
}

// parsedEntry is a validated create/update payload.
type parsedEntry struct {
	date         time.Time
	shiftStart   timeofday.TimeOfDay
	shiftEnd     timeofday.TimeOfDay
	breakMinutes int
}

func parseEntryRequest(req *dto.TimeEntryRequest) (*parsedEntry, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidShiftTime
	}
	start, err := timeofday.Parse(req.ShiftStart)
	if err != nil {
		return nil, ErrInvalidShiftTime
	}
	end, err := timeofday.Parse(req.ShiftEnd)
	if err != nil {
		return nil, ErrInvalidShiftTime
	}
	return &parsedEntry{
		date:         date,
		shiftStart:   start,
		shiftEnd:     end,
		breakMinutes: *req.BreakMinutes,
	}, nil
}

func (s *timeEntryService) Create(ctx context.Context, userID string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error) {
	parsed, err := parseEntryRequest(req)
	if err != nil {
		return nil, err
	}

	// One entry per user per date; the unique index backs this up.
	if _, err := s.repo.TimeEntry.GetByUserAndDate(ctx, userID, parsed.date); err == nil {
		return nil, ErrEntryDateTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup entry by date failed", zap.Error(err))
		return nil, err
	}

	entry := &model.TimeEntry{
		UserID:       userID,
		Date:         parsed.date,
		ShiftStart:   parsed.shiftStart,
		ShiftEnd:     parsed.shiftEnd,
		BreakMinutes: parsed.breakMinutes,
		TotalHours:   hours.ComputeTotalHours(parsed.shiftStart, parsed.shiftEnd, parsed.breakMinutes),
		Notes:        req.Notes,
	}

	if err := s.repo.TimeEntry.Create(ctx, entry); err != nil {
		s.logger.Error("create entry failed", zap.Error(err))
		return nil, err
	}

	resp := timeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) Update(ctx context.Context, userID, entryID string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error) {
	parsed, err := parseEntryRequest(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	// Moving to another date must not collide with an existing entry.
	if existing, err := s.repo.TimeEntry.GetByUserAndDate(ctx, userID, parsed.date); err == nil {
		if existing.TimeEntryID != entry.TimeEntryID {
			return nil, ErrEntryDateTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup entry by date failed", zap.Error(err))
		return nil, err
	}

	entry.Date = parsed.date
	entry.ShiftStart = parsed.shiftStart
	entry.ShiftEnd = parsed.shiftEnd
	entry.BreakMinutes = parsed.breakMinutes
	entry.TotalHours = hours.ComputeTotalHours(parsed.shiftStart, parsed.shiftEnd, parsed.breakMinutes)
	entry.Notes = req.Notes

	if err := s.repo.TimeEntry.Update(ctx, entry); err != nil {
		s.logger.Error("update entry failed", zap.Error(err))
		return nil, err
	}

	resp := timeEntryResponse(entry)
	return &resp, nil
}

func (s *timeEntryService) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if err := s.repo.TimeEntry.Delete(ctx, entry.TimeEntryID); err != nil {
		s.logger.Error("delete entry failed", zap.Error(err))
		return err
	}

	return nil
}

func (s *timeEntryService) ListMonth(ctx context.Context, userID, month string) (*dto.MonthEntriesResponse, error) {
	year, m, label, err := parseMonth(month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	entries, err := s.repo.TimeEntry.ListMonthByUser(ctx, userID, year, m, repository.DateDesc)
	if err != nil {
		s.logger.Error("list month entries failed", zap.Error(err))
		return nil, err
	}

	summary := hours.AggregateMonth(entries)

	resp := &dto.MonthEntriesResponse{
		Month:      label,
		Entries:    make([]dto.TimeEntryResponse, 0, len(entries)),
		MonthTotal: summary.GrandTotal.StringFixed(2),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, timeEntryResponse(&entries[i]))
	}

	return resp, nil
}

// ExportCSV renders the user's month as CSV, oldest entry first.
func (s *timeEntryService) ExportCSV(ctx context.Context, userID, month string) (*bytes.Buffer, string, error) {
	year, m, label, err := parseMonth(month)
	if err != nil {
		return nil, "", ErrInvalidMonth
	}

	entries, err := s.repo.TimeEntry.ListMonthByUser(ctx, userID, year, m, repository.DateAsc)
	if err != nil {
		s.logger.Error("list month entries failed", zap.Error(err))
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"Date", "Start", "End", "Break (min)", "Total Hours", "Notes"})
	for _, entry := range entries {
		notes := ""
		if entry.Notes != nil {
			notes = *entry.Notes
		}
		_ = w.Write([]string{
			entry.Date.Format("2006-01-02"),
			entry.ShiftStart.String(),
			entry.ShiftEnd.String(),
			fmt.Sprintf("%d", entry.BreakMinutes),
			entry.TotalHours.StringFixed(2),
			notes,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf, fmt.Sprintf("hours-%s.csv", label), nil
}

// ExportICS renders the user's month as an iCalendar, one event per
// shift. Overnight shifts end on the following day.
func (s *timeEntryService) ExportICS(ctx context.Context, userID, month string) (*bytes.Buffer, string, error) {
	year, m, label, err := parseMonth(month)
	if err != nil {
		return nil, "", ErrInvalidMonth
	}

	entries, err := s.repo.TimeEntry.ListMonthByUser(ctx, userID, year, m, repository.DateAsc)
	if err != nil {
		s.logger.Error("list month entries failed", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Kade Shifts//Hour Registration//EN")

	for _, entry := range entries {
		start := atTimeOfDay(entry.Date, entry.ShiftStart)
		end := atTimeOfDay(entry.Date, entry.ShiftEnd)
		if entry.ShiftEnd.Before(entry.ShiftStart) {
			end = end.AddDate(0, 0, 1)
		}

		event := cal.AddEvent(fmt.Sprintf("%s@kade-shifts", entry.TimeEntryID))
		event.SetCreatedTime(entry.CreatedAt)
		event.SetModifiedAt(entry.UpdatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("Work shift (%s h)", entry.TotalHours.StringFixed(2)))
		if entry.Notes != nil && *entry.Notes != "" {
			event.SetDescription(*entry.Notes)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("shifts-%s.ics", label), nil
}

// getOwnedEntry loads an entry and enforces ownership.
func (s *timeEntryService) getOwnedEntry(ctx context.Context, userID, entryID string) (*model.TimeEntry, error) {
	entry, err := s.repo.TimeEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("lookup entry failed", zap.Error(err))
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrEntryForbidden
	}
	return entry, nil
}

// atTimeOfDay combines an entry date with a clock time.
func atTimeOfDay(date time.Time, tod timeofday.TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local)
}

// timeEntryResponse maps an entry row to its API view.
func timeEntryResponse(entry *model.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:           entry.TimeEntryID,
		Date:         entry.Date.Format("2006-01-02"),
		ShiftStart:   entry.ShiftStart.String(),
		ShiftEnd:     entry.ShiftEnd.String(),
		BreakMinutes: entry.BreakMinutes,
		TotalHours:   entry.TotalHours.StringFixed(2),
		Notes:        entry.Notes,
	}
}

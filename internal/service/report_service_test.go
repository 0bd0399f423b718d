package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kasperversteeg/kade-shifts/internal/model"
)

// seedTeam sets up two workers and an admin, with March 2026 entries
// for Jan only: 7.50 + 8.00 hours. Mies stays at zero.
func seedTeam(t *testing.T, repo *mockUserRepo, entrySvc TimeEntryService) (jan, mies, admin *model.User) {
	t.Helper()
	ctx := context.Background()

	jan = seedUser(t, repo, "jan@example.com", "Secret123", model.RoleUser)
	jan.Name = "Jan Jansen"
	mies = seedUser(t, repo, "mies@example.com", "Secret123", model.RoleUser)
	mies.Name = "Mies de Vries"
	admin = seedUser(t, repo, "admin@example.com", "Secret123", model.RoleAdmin)
	admin.Name = "Beheerder"

	if _, err := entrySvc.Create(ctx, jan.UserID, entryReq("2026-03-02", "09:00", "17:00", 30)); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if _, err := entrySvc.Create(ctx, jan.UserID, entryReq("2026-03-10", "22:00", "06:00", 0)); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return jan, mies, admin
}

func TestReportService_Overview(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	jan, mies, _ := seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	result, err := svc.Overview(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Month != "2026-03" {
		t.Errorf("unexpected month: %s", result.Month)
	}
	if len(result.Users) != 2 {
		t.Fatalf("expected 2 users in the overview, got %d", len(result.Users))
	}
	if result.GrandTotal != "15.50" {
		t.Errorf("expected grand total 15.50, got %s", result.GrandTotal)
	}

	byID := make(map[string]int)
	for i, row := range result.Users {
		byID[row.UserID] = i
	}
	janRow := result.Users[byID[jan.UserID]]
	if janRow.TotalHours != "15.50" || janRow.EntriesCount != 2 {
		t.Errorf("unexpected row for Jan: %+v", janRow)
	}
	// Zero-entry users still get a row.
	miesRow := result.Users[byID[mies.UserID]]
	if miesRow.TotalHours != "0.00" || miesRow.EntriesCount != 0 {
		t.Errorf("unexpected row for Mies: %+v", miesRow)
	}
}

func TestReportService_Overview_ExcludesAdmins(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	_, _, admin := seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	result, err := svc.Overview(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range result.Users {
		if row.UserID == admin.UserID {
			t.Error("admins must not appear in the worker overview")
		}
	}
}

func TestReportService_Overview_EmptyMonth(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	result, err := svc.Overview(context.Background(), "2026-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.GrandTotal != "0.00" {
		t.Errorf("expected grand total 0.00, got %s", result.GrandTotal)
	}
	for _, row := range result.Users {
		if row.TotalHours != "0.00" || row.EntriesCount != 0 {
			t.Errorf("expected a zero row, got %+v", row)
		}
	}
}

func TestReportService_UserDetail(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	jan, _, _ := seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	result, err := svc.UserDetail(context.Background(), jan.UserID, "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	// Newest first, like the user's own list.
	if result.Entries[0].Date != "2026-03-10" {
		t.Errorf("expected newest entry first, got %s", result.Entries[0].Date)
	}
	if result.MonthTotal != "15.50" {
		t.Errorf("expected month total 15.50, got %s", result.MonthTotal)
	}
}

func TestReportService_UserDetail_UnknownUser(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	_, err := svc.UserDetail(context.Background(), "nope", "2026-03")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReportService_SendMonthlyReport(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	_, _, admin := seedTeam(t, users, entrySvc)
	mail := &mockMailer{}
	svc := NewReportService(repo, mail, nopLogger())

	if err := svc.SendMonthlyReport(context.Background(), admin.UserID, "2026-03"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mail.reports) != 1 {
		t.Fatalf("expected one report mail, got %d", len(mail.reports))
	}
	sent := mail.reports[0]
	// Mailed to the requesting admin's own address.
	if sent.to != "admin@example.com" {
		t.Errorf("report sent to %s", sent.to)
	}
	if sent.month != "March 2026" {
		t.Errorf("unexpected month heading: %s", sent.month)
	}
	if sent.grandTotal != "15.50" {
		t.Errorf("unexpected grand total: %s", sent.grandTotal)
	}
	// Zero-entry users appear in the mail as well.
	if len(sent.rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(sent.rows))
	}
}

func TestReportService_SendMonthlyReport_UnknownAdmin(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	err := svc.SendMonthlyReport(context.Background(), "nope", "2026-03")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReportService_ExportTeamCSV(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	buf, filename, err := svc.ExportTeamCSV(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "team-hours-2026-03.csv" {
		t.Errorf("unexpected filename: %s", filename)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "User,Date,Start,End,Break (min),Total Hours" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// Two entry rows, oldest first; zero-entry users produce no rows.
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[1] != "Jan Jansen,2026-03-02,09:00,17:00,30,7.50" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if lines[2] != "Jan Jansen,2026-03-10,22:00,06:00,0,8.00" {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestReportService_ExportTeamXLSX(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	buf, filename, err := svc.ExportTeamXLSX(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "team-hours-2026-03.xlsx" {
		t.Errorf("unexpected filename: %s", filename)
	}
	if buf.Len() == 0 {
		t.Error("expected a non-empty workbook")
	}
}

func TestReportService_ExportPDF(t *testing.T) {
	repo, users, _, _ := testRepo()
	entrySvc := NewTimeEntryService(repo, nopLogger())
	seedTeam(t, users, entrySvc)
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	buf, filename, err := svc.ExportPDF(context.Background(), "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "report-2026-03.pdf" {
		t.Errorf("unexpected filename: %s", filename)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("expected PDF output")
	}
}

func TestReportService_InvalidMonth(t *testing.T) {
	repo, _, _, _ := testRepo()
	svc := NewReportService(repo, &mockMailer{}, nopLogger())

	if _, err := svc.Overview(context.Background(), "bogus"); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
	if _, _, err := svc.ExportPDF(context.Background(), "2026-13"); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}

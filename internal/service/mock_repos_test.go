package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/config"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/jwt"
	"github.com/Kasperversteeg/kade-shifts/pkg/mailer"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	for _, u := range m.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock TimeEntryRepository ──

type mockTimeEntryRepo struct {
	entries map[string]*model.TimeEntry // key: time_entry_id
	seq     int
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{entries: make(map[string]*model.TimeEntry)}
}

func (m *mockTimeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	if entry.TimeEntryID == "" {
		m.seq++
		entry.TimeEntryID = fmt.Sprintf("entry-%d", m.seq)
	}
	m.entries[entry.TimeEntryID] = entry
	return nil
}

func (m *mockTimeEntryRepo) GetByID(_ context.Context, id string) (*model.TimeEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*model.TimeEntry, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.Date.Equal(date) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	if _, ok := m.entries[entry.TimeEntryID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.entries[entry.TimeEntryID] = entry
	return nil
}

func (m *mockTimeEntryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockTimeEntryRepo) listMonth(userID string, year, month int, order repository.DateOrder) []model.TimeEntry {
	var result []model.TimeEntry
	for _, e := range m.entries {
		if userID != "" && e.UserID != userID {
			continue
		}
		if e.Date.Year() != year || int(e.Date.Month()) != month {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		if order == repository.DateDesc {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func (m *mockTimeEntryRepo) ListMonthByUser(_ context.Context, userID string, year, month int, order repository.DateOrder) ([]model.TimeEntry, error) {
	return m.listMonth(userID, year, month, order), nil
}

func (m *mockTimeEntryRepo) ListMonth(_ context.Context, year, month int, order repository.DateOrder) ([]model.TimeEntry, error) {
	return m.listMonth("", year, month, order), nil
}

// ── Mock InvitationRepository ──

type mockInvitationRepo struct {
	invitations map[string]*model.Invitation // key: invitation_id
	seq         int
}

func newMockInvitationRepo() *mockInvitationRepo {
	return &mockInvitationRepo{invitations: make(map[string]*model.Invitation)}
}

func (m *mockInvitationRepo) Create(_ context.Context, invitation *model.Invitation) error {
	if invitation.InvitationID == "" {
		m.seq++
		invitation.InvitationID = fmt.Sprintf("invitation-%d", m.seq)
	}
	m.invitations[invitation.InvitationID] = invitation
	return nil
}

func (m *mockInvitationRepo) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	for _, i := range m.invitations {
		if i.Token == token {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvitationRepo) GetByEmail(_ context.Context, email string) (*model.Invitation, error) {
	for _, i := range m.invitations {
		if i.Email == email {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvitationRepo) Update(_ context.Context, invitation *model.Invitation) error {
	if _, ok := m.invitations[invitation.InvitationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.invitations[invitation.InvitationID] = invitation
	return nil
}

func (m *mockInvitationRepo) List(_ context.Context) ([]model.Invitation, error) {
	var result []model.Invitation
	for _, i := range m.invitations {
		result = append(result, *i)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ── Mock Mailer ──

type sentInvitation struct {
	to        string
	inviteURL string
	expiresAt time.Time
}

type sentReport struct {
	to         string
	month      string
	rows       []mailer.ReportRow
	grandTotal string
}

type mockMailer struct {
	invitations []sentInvitation
	reports     []sentReport
	err         error
}

func (m *mockMailer) SendInvitation(to, inviteURL string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.invitations = append(m.invitations, sentInvitation{to: to, inviteURL: inviteURL, expiresAt: expiresAt})
	return nil
}

func (m *mockMailer) SendMonthlyReport(to, month string, rows []mailer.ReportRow, grandTotal string) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, sentReport{to: to, month: month, rows: rows, grandTotal: grandTotal})
	return nil
}

// ── Shared fixtures ──

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:   8080,
			AppURL: "https://shifts.example.com",
		},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-at-least-16-chars",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 720 * time.Hour,
			InvitationTTL:           168 * time.Hour,
		},
	}
}

func testJWTManager() *jwt.Manager {
	cfg := testConfig()
	return jwt.NewManager(&cfg.Auth)
}

func testRepo() (*repository.Repository, *mockUserRepo, *mockTimeEntryRepo, *mockInvitationRepo) {
	users := newMockUserRepo()
	entries := newMockTimeEntryRepo()
	invitations := newMockInvitationRepo()
	repo := &repository.Repository{
		User:       users,
		TimeEntry:  entries,
		Invitation: invitations,
	}
	return repo, users, entries, invitations
}

func nopLogger() *zap.Logger { return zap.NewNop() }

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

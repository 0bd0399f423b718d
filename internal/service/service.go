package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kasperversteeg/kade-shifts/config"
	"github.com/Kasperversteeg/kade-shifts/internal/repository"
	"github.com/Kasperversteeg/kade-shifts/pkg/jwt"
	"github.com/Kasperversteeg/kade-shifts/pkg/mailer"
	"github.com/Kasperversteeg/kade-shifts/pkg/redis"
)

// Service bundles all business services.
type Service struct {
	Auth       AuthService
	User       UserService
	TimeEntry  TimeEntryService
	Invitation InvitationService
	Report     ReportService
}

// NewService wires the service bundle. rdb may be nil; token
// revocation then degrades to a no-op.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	mail mailer.Mailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, logger),
		TimeEntry:  NewTimeEntryService(repo, logger),
		Invitation: NewInvitationService(cfg, repo, jwtMgr, mail, logger),
		Report:     NewReportService(repo, mail, logger),
	}
}

// parseMonth parses a "YYYY-MM" month selector, defaulting to the
// current month when empty. The returned label is the normalized
// "YYYY-MM" form used in responses and filenames.
func parseMonth(s string) (year int, month int, label string, err error) {
	if s == "" {
		now := time.Now()
		return now.Year(), int(now.Month()), now.Format("2006-01"), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), t.Format("2006-01"), nil
}

// monthName renders "2026-03" as "March 2026" for report headings.
func monthName(label string) string {
	t, err := time.Parse("2006-01", label)
	if err != nil {
		return label
	}
	return t.Format("January 2006")
}

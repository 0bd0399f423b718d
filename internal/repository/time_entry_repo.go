package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Kasperversteeg/kade-shifts/internal/model"
)

// DateOrder selects entry ordering within a month: newest first for
// dashboards and lists, oldest first for exports.
type DateOrder string

const (
	DateAsc  DateOrder = "date ASC"
	DateDesc DateOrder = "date DESC"
)

// TimeEntryRepository is the time_entries table access interface.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	Delete(ctx context.Context, id string) error
	ListMonthByUser(ctx context.Context, userID string, year, month int, order DateOrder) ([]model.TimeEntry, error)
	ListMonth(ctx context.Context, year, month int, order DateOrder) ([]model.TimeEntry, error)
}

type timeEntryRepo struct {
	db *gorm.DB
}

// NewTimeEntryRepo creates the GORM-backed TimeEntryRepository.
func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("time_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *timeEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("time_entry_id = ?", id).
		Delete(&model.TimeEntry{}).Error
}

func (r *timeEntryRepo) ListMonthByUser(ctx context.Context, userID string, year, month int, order DateOrder) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	from, to := monthBounds(year, month)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order(string(order)).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *timeEntryRepo) ListMonth(ctx context.Context, year, month int, order DateOrder) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	from, to := monthBounds(year, month)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("date >= ? AND date < ?", from, to).
		Order(string(order)).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// monthBounds returns the month's first day and the next month's first
// day as "YYYY-MM-DD", the half-open range used by the month queries.
func monthBounds(year, month int) (string, string) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from.Format("2006-01-02"), from.AddDate(0, 1, 0).Format("2006-01-02")
}

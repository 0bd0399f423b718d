package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kasperversteeg/kade-shifts/pkg/timeofday"
)

// TimeEntry is one logged work shift. A user has at most one entry per
// calendar date, enforced by a unique index on (user_id, date).
//
// TotalHours is derived from ShiftStart, ShiftEnd and BreakMinutes by
// hours.ComputeTotalHours and recomputed on every write; it is never
// accepted from the client.
type TimeEntry struct {
	TimeEntryID  string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_entry_id"`
	UserID       string              `gorm:"type:uuid;not null;uniqueIndex:uq_time_entries_user_date" json:"user_id"`
	Date         time.Time           `gorm:"type:date;not null;uniqueIndex:uq_time_entries_user_date" json:"date"`
	ShiftStart   timeofday.TimeOfDay `gorm:"type:time;not null"             json:"shift_start"`
	ShiftEnd     timeofday.TimeOfDay `gorm:"type:time;not null"             json:"shift_end"`
	BreakMinutes int                 `gorm:"not null;default:0"             json:"break_minutes"`
	TotalHours   decimal.Decimal     `gorm:"type:numeric(5,2);not null"     json:"total_hours"`
	Notes        *string             `gorm:"type:text"                      json:"notes,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName sets the table name.
func (TimeEntry) TableName() string { return "time_entries" }

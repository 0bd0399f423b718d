// Package timeofday provides a minute-resolution time-of-day value type
// that maps to a PostgreSQL TIME column. Shift times carry no date or
// timezone; the calendar date lives on the entry itself.
package timeofday

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time between 00:00 and 23:59, stored as minutes
// since midnight. The zero value is midnight.
type TimeOfDay struct {
	minutes int
}

// Parse parses "HH:MM" (24-hour clock). A trailing ":SS" as produced by
// PostgreSQL TIME columns is accepted and ignored.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("timeofday: invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("timeofday: invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("timeofday: invalid minute in %q", s)
	}
	return TimeOfDay{minutes: h*60 + m}, nil
}

// MustParse is Parse for trusted literals in tests and fixtures.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes builds a TimeOfDay from minutes since midnight modulo a day.
func FromMinutes(m int) TimeOfDay {
	m %= 24 * 60
	if m < 0 {
		m += 24 * 60
	}
	return TimeOfDay{minutes: m}
}

// MinuteOfDay returns minutes since midnight (0..1439).
func (t TimeOfDay) MinuteOfDay() int { return t.minutes }

// Hour returns the hour component (0..23).
func (t TimeOfDay) Hour() int { return t.minutes / 60 }

// Minute returns the minute component (0..59).
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

// Before reports whether t is strictly earlier than u by clock time.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.minutes < u.minutes }

// MinutesUntil returns the signed same-day difference u − t in minutes.
// Negative when u is earlier than t; overnight interpretation is the
// caller's concern.
func (t TimeOfDay) MinutesUntil(u TimeOfDay) int { return u.minutes - t.minutes }

// String formats as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes as a "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIME columns ("HH:MM:SS" text).
func (t *TimeOfDay) Scan(src interface{}) error {
	if src == nil {
		*t = TimeOfDay{}
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("timeofday: cannot scan %T", src)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer, producing "HH:MM:00" for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

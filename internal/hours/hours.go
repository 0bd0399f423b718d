// Package hours holds the shift-hours arithmetic: deriving a shift's
// total worked hours and rolling entries up into monthly per-user totals.
// Everything here is pure; persistence and scoping are the caller's job.
package hours

import (
	"github.com/shopspring/decimal"

	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/pkg/timeofday"
)

var minutesPerHour = decimal.NewFromInt(60)

// ComputeTotalHours converts a shift into decimal hours, rounded
// half-up to two decimals.
//
// A shift whose end is strictly earlier than its start by clock time is
// read as ending the next day (22:00–06:00 is eight hours). Equal start
// and end is a zero-minute span, not a 24-hour shift, and a break longer
// than the span yields a negative result; both are long-standing
// behavior that callers and stored data rely on, so neither is clamped
// here.
func ComputeTotalHours(start, end timeofday.TimeOfDay, breakMinutes int) decimal.Decimal {
	elapsed := start.MinutesUntil(end)
	if end.Before(start) {
		elapsed += 24 * 60
	}
	worked := elapsed - breakMinutes

	return decimal.NewFromInt(int64(worked)).Div(minutesPerHour).Round(2)
}

// UserTotal is one user's rollup for a month.
type UserTotal struct {
	TotalHours   decimal.Decimal
	EntriesCount int
}

// Summary is the monthly rollup across users. GrandTotal is summed over
// all entries directly and always equals the sum of the per-user totals.
type Summary struct {
	PerUser    map[string]UserTotal
	GrandTotal decimal.Decimal
}

// AggregateMonth groups entries by user and sums their stored
// TotalHours values. Entries must already be scoped to a single
// calendar month; this function does no date filtering. An empty input
// yields an empty map and a zero grand total.
func AggregateMonth(entries []model.TimeEntry) Summary {
	summary := Summary{
		PerUser:    make(map[string]UserTotal, len(entries)),
		GrandTotal: decimal.Zero,
	}

	for _, entry := range entries {
		total := summary.PerUser[entry.UserID]
		total.TotalHours = total.TotalHours.Add(entry.TotalHours)
		total.EntriesCount++
		summary.PerUser[entry.UserID] = total

		summary.GrandTotal = summary.GrandTotal.Add(entry.TotalHours)
	}

	return summary
}

// AggregateMonthWithRoster is AggregateMonth for callers that know the
// full user roster, such as the admin overview: every roster user gets
// a row, including users with no entries this month. Entries for users
// outside the roster are ignored entirely, grand total included.
func AggregateMonthWithRoster(entries []model.TimeEntry, userIDs []string) Summary {
	roster := make(map[string]bool, len(userIDs))
	summary := Summary{
		PerUser:    make(map[string]UserTotal, len(userIDs)),
		GrandTotal: decimal.Zero,
	}
	for _, id := range userIDs {
		roster[id] = true
		summary.PerUser[id] = UserTotal{TotalHours: decimal.Zero}
	}

	for _, entry := range entries {
		if !roster[entry.UserID] {
			continue
		}
		total := summary.PerUser[entry.UserID]
		total.TotalHours = total.TotalHours.Add(entry.TotalHours)
		total.EntriesCount++
		summary.PerUser[entry.UserID] = total

		summary.GrandTotal = summary.GrandTotal.Add(entry.TotalHours)
	}

	return summary
}

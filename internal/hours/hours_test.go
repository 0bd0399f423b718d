package hours

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/pkg/timeofday"
)

func entry(userID, date string, hours string) model.TimeEntry {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.TimeEntry{
		UserID:     userID,
		Date:       d,
		TotalHours: decimal.RequireFromString(hours),
	}
}

func TestComputeTotalHours(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		breakMinutes int
		want         string
	}{
		{"regular day, zero break", "09:00", "17:00", 0, "8"},
		{"regular day with break", "09:00", "17:30", 30, "8"},
		{"overnight shift", "22:00", "06:00", 30, "7.5"},
		{"overnight one minute short of full day", "09:00", "08:59", 0, "23.98"},
		{"rounds half up", "09:00", "13:25", 15, "4.17"},
		{"rounds down below half", "09:00", "09:40", 0, "0.67"},
		{"equal start and end is zero, not 24h", "09:00", "09:00", 0, "0"},
		{"equal start and end goes negative with break", "09:00", "09:00", 10, "-0.17"},
		{"break longer than shift goes negative", "09:00", "10:00", 90, "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotalHours(
				timeofday.MustParse(tt.start),
				timeofday.MustParse(tt.end),
				tt.breakMinutes,
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeTotalHoursMatchesMinuteArithmetic(t *testing.T) {
	// Same-day shifts with end after start must equal
	// (end - start - break) / 60 rounded to two decimals.
	cases := []struct {
		start, end   string
		breakMinutes int
	}{
		{"00:00", "23:59", 0},
		{"06:15", "14:45", 45},
		{"08:00", "16:20", 480},
		{"12:01", "12:02", 0},
	}

	for _, c := range cases {
		start := timeofday.MustParse(c.start)
		end := timeofday.MustParse(c.end)
		want := decimal.NewFromInt(int64(start.MinutesUntil(end) - c.breakMinutes)).
			Div(decimal.NewFromInt(60)).Round(2)

		got := ComputeTotalHours(start, end, c.breakMinutes)
		assert.True(t, got.Equal(want), "%s-%s break %d: got %s, want %s",
			c.start, c.end, c.breakMinutes, got, want)
	}
}

func TestAggregateMonthEmpty(t *testing.T) {
	summary := AggregateMonth(nil)

	assert.Empty(t, summary.PerUser)
	assert.True(t, summary.GrandTotal.IsZero())
}

func TestAggregateMonthTwoUsers(t *testing.T) {
	entries := []model.TimeEntry{
		entry("user-a", "2026-03-02", "8.00"),
		entry("user-a", "2026-03-03", "7.50"),
		entry("user-b", "2026-03-02", "6.25"),
	}

	summary := AggregateMonth(entries)

	require.Len(t, summary.PerUser, 2)

	a := summary.PerUser["user-a"]
	assert.True(t, a.TotalHours.Equal(decimal.RequireFromString("15.50")), "user-a hours: %s", a.TotalHours)
	assert.Equal(t, 2, a.EntriesCount)

	b := summary.PerUser["user-b"]
	assert.True(t, b.TotalHours.Equal(decimal.RequireFromString("6.25")), "user-b hours: %s", b.TotalHours)
	assert.Equal(t, 1, b.EntriesCount)

	assert.True(t, summary.GrandTotal.Equal(decimal.RequireFromString("21.75")), "grand total: %s", summary.GrandTotal)
}

func TestAggregateMonthGrandTotalMatchesPerUserSum(t *testing.T) {
	entries := []model.TimeEntry{
		entry("user-a", "2026-01-05", "7.98"),
		entry("user-a", "2026-01-06", "-0.17"), // negative entries participate as-is
		entry("user-b", "2026-01-05", "0.00"),
		entry("user-c", "2026-01-07", "23.98"),
		entry("user-c", "2026-01-08", "4.17"),
	}

	summary := AggregateMonth(entries)

	sum := decimal.Zero
	for _, total := range summary.PerUser {
		sum = sum.Add(total.TotalHours)
	}
	assert.True(t, summary.GrandTotal.Equal(sum),
		"grand total %s != per-user sum %s", summary.GrandTotal, sum)
}

func TestAggregateMonthIdempotent(t *testing.T) {
	entries := []model.TimeEntry{
		entry("user-a", "2026-02-02", "8.00"),
		entry("user-b", "2026-02-02", "6.25"),
	}

	first := AggregateMonth(entries)
	second := AggregateMonth(entries)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	require.Equal(t, len(first.PerUser), len(second.PerUser))
	for id, total := range first.PerUser {
		assert.True(t, total.TotalHours.Equal(second.PerUser[id].TotalHours), "user %s", id)
		assert.Equal(t, total.EntriesCount, second.PerUser[id].EntriesCount, "user %s", id)
	}
}

func TestAggregateMonthWithRosterIncludesZeroEntryUsers(t *testing.T) {
	entries := []model.TimeEntry{
		entry("user-a", "2026-03-02", "8.00"),
	}

	summary := AggregateMonthWithRoster(entries, []string{"user-a", "user-b"})

	require.Len(t, summary.PerUser, 2)
	assert.Equal(t, 1, summary.PerUser["user-a"].EntriesCount)

	b := summary.PerUser["user-b"]
	assert.True(t, b.TotalHours.IsZero())
	assert.Equal(t, 0, b.EntriesCount)

	assert.True(t, summary.GrandTotal.Equal(decimal.RequireFromString("8.00")))
}

func TestAggregateMonthWithRosterIgnoresNonRosterEntries(t *testing.T) {
	// Admin entries carry hours too, but the overview roster only lists
	// regular users; stray entries must not leak into the grand total.
	entries := []model.TimeEntry{
		entry("user-a", "2026-03-02", "8.00"),
		entry("admin-1", "2026-03-02", "5.00"),
	}

	summary := AggregateMonthWithRoster(entries, []string{"user-a"})

	require.Len(t, summary.PerUser, 1)
	assert.True(t, summary.GrandTotal.Equal(decimal.RequireFromString("8.00")),
		"grand total: %s", summary.GrandTotal)
}

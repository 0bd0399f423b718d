package dto

// ── time entry requests ──

// TimeEntryRequest is the create/update payload for a shift entry.
// Times are "HH:MM" on a 24-hour clock; a shift whose end is earlier
// than its start runs into the next day. The break may not exceed 8
// hours. total_hours is derived server-side and never accepted here.
type TimeEntryRequest struct {
	Date         string  `json:"date"          binding:"required,datetime=2006-01-02"`
	ShiftStart   string  `json:"shift_start"   binding:"required"`
	ShiftEnd     string  `json:"shift_end"     binding:"required"`
	BreakMinutes *int    `json:"break_minutes" binding:"required,min=0,max=480"`
	Notes        *string `json:"notes"         binding:"omitempty,max=500"`
}

// MonthQuery selects a calendar month as "YYYY-MM"; the current month
// when absent.
type MonthQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}

// ── time entry responses ──

// TimeEntryResponse is one shift entry as returned to the client.
type TimeEntryResponse struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	ShiftStart   string  `json:"shift_start"`
	ShiftEnd     string  `json:"shift_end"`
	BreakMinutes int     `json:"break_minutes"`
	TotalHours   string  `json:"total_hours"`
	Notes        *string `json:"notes,omitempty"`
}

// MonthEntriesResponse is a user's entries for one month plus the
// month total.
type MonthEntriesResponse struct {
	Month      string              `json:"month"`
	Entries    []TimeEntryResponse `json:"entries"`
	MonthTotal string              `json:"month_total"`
}

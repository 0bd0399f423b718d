package dto

// ── admin report responses ──

// OverviewRow is one user's monthly rollup in the admin overview.
// Users without entries this month appear with zero hours.
type OverviewRow struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	TotalHours   string `json:"total_hours"`
	EntriesCount int    `json:"entries_count"`
}

// OverviewResponse is the admin month overview across all users.
type OverviewResponse struct {
	Month      string        `json:"month"`
	Users      []OverviewRow `json:"users"`
	GrandTotal string        `json:"grand_total"`
}

// UserDetailResponse is one user's entries as seen by an admin.
type UserDetailResponse struct {
	User       UserResponse        `json:"user"`
	Month      string              `json:"month"`
	Entries    []TimeEntryResponse `json:"entries"`
	MonthTotal string              `json:"month_total"`
}

package dto

// ── invitation requests ──

// CreateInvitationRequest invites an email address to join.
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInvitationRequest completes registration for a valid token.
type AcceptInvitationRequest struct {
	Name     string `json:"name"     binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ── invitation responses ──

// InvitationResponse is one invitation in the admin list.
type InvitationResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	InviterName string  `json:"inviter_name,omitempty"`
	ExpiresAt   string  `json:"expires_at"`
	AcceptedAt  *string `json:"accepted_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// InvitationValidityResponse tells the signup page whether a token can
// still be accepted.
type InvitationValidityResponse struct {
	Valid    bool   `json:"valid"`
	Email    string `json:"email,omitempty"`
	Reason   string `json:"reason,omitempty"` // "expired" | "accepted" when invalid
	ExpiresAt string `json:"expires_at,omitempty"`
}

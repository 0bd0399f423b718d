package model

import "time"

// Invitation gates account creation. An admin invites an email address;
// the recipient follows the tokenized link and completes registration
// before ExpiresAt.
type Invitation struct {
	InvitationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invitation_id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Token        string     `gorm:"type:varchar(64);not null;uniqueIndex"          json:"-"`
	InvitedBy    string     `gorm:"type:uuid;not null"                             json:"invited_by"`
	ExpiresAt    time.Time  `gorm:"not null"                                       json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	BaseModel

	Inviter *User `gorm:"foreignKey:InvitedBy;references:UserID" json:"inviter,omitempty"`
}

// TableName sets the table name.
func (Invitation) TableName() string { return "invitations" }

// IsExpired reports whether the invitation can no longer be accepted.
func (i *Invitation) IsExpired() bool { return time.Now().After(i.ExpiresAt) }

// IsAccepted reports whether the invitation has already been used.
func (i *Invitation) IsAccepted() bool { return i.AcceptedAt != nil }

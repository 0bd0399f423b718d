package repository

import "gorm.io/gorm"

// Repository bundles all data-access interfaces.
type Repository struct {
	User       UserRepository
	TimeEntry  TimeEntryRepository
	Invitation InvitationRepository
}

// NewRepository creates the Repository bundle over one gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		TimeEntry:  NewTimeEntryRepo(db),
		Invitation: NewInvitationRepo(db),
	}
}

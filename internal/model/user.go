package model

// User is an account holder. Accounts only come into existence through an
// accepted invitation; there is no open registration.
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(255);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	GoogleID     *string `gorm:"type:varchar(255);uniqueIndex"                  json:"-"` // set on first Google sign-in
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	Language     string  `gorm:"type:varchar(5);not null;default:'en'"          json:"language"`
	BaseModel
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

package dto

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Language string `json:"language"`
}

// UpdatePreferencesRequest updates the caller's interface preferences.
type UpdatePreferencesRequest struct {
	Language string `json:"language" binding:"required,oneof=en nl"`
}

package dto

// ── auth requests ──

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest carries the refresh token to exchange.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest updates the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// GoogleCallbackRequest carries the OAuth authorization code and the
// state echoed back by Google.
type GoogleCallbackRequest struct {
	Code  string `form:"code"  binding:"required"`
	State string `form:"state" binding:"required"`
}

// ── auth responses ──

// TokenResponse is the token pair issued on login, refresh and
// invitation acceptance.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime in seconds
	User         UserResponse `json:"user"`
}

// GoogleAuthURLResponse carries the consent-screen redirect target.
type GoogleAuthURLResponse struct {
	URL string `json:"url"`
}

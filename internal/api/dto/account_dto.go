package dto

// RegisterRequest payload for new accounts. Field names follow the
// registration form.
type RegisterRequest struct {
	Name     string `json:"nome" form:"nome"`
	Email    string `json:"email" form:"email"`
	Password string `json:"senha" form:"senha"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"senha" form:"senha"`
}

// ForgotPasswordRequest payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// ResetPasswordRequest payload for consuming a reset link.
type ResetPasswordRequest struct {
	Password string `json:"senha" form:"senha"`
}

package dto

import "github.com/edumanage/educenter/internal/app/models"

// RegisterRequest is the account registration form
type RegisterRequest struct {
	Username        string      `json:"username" validate:"required,min=4,max=50,alphanum"`
	Password        string      `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string      `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            models.Role `json:"role" validate:"required,oneof=0 1"`
	FullName        string      `json:"fullName" validate:"required,max=100"`
	Email           string      `json:"email" validate:"required,email,max=100"`
	Phone           string      `json:"phone" validate:"required,vnphone"`
	DateOfBirth     string      `json:"dateOfBirth" validate:"required,datetime=2006-01-02,pastdate"`
	Gender          string      `json:"gender" validate:"required,oneof=male female other"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest changes the signed-in user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest updates the contact data of an account
type UpdateProfileRequest struct {
	FullName    string `json:"fullName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Phone       string `json:"phone" validate:"required,vnphone"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02,pastdate"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  *models.User  `json:"user"`
}

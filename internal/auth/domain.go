package auth

import (
	"time"

	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// Messages shown on the login and registration pages.
const (
	InvalidCredentialsMessage = "Invalid email/username or password. Please try again."
	RegistrationFailedMessage = "Registration failed. Please try again."
	BackendDownMessage        = "Network error. Please check if the backend server is running."
	TermsMessage              = "You must agree to the terms and conditions"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	UsernameOrEmail string `form:"usernameOrEmail" label:"Email or username" validate:"required"`
	Password        string `form:"password" label:"Password" validate:"required"`
}

// RegisterForm is the account creation form.
type RegisterForm struct {
	Username     string `form:"username" label:"Username" validate:"required,min=3"`
	FullName     string `form:"fullName" label:"Full name" validate:"required"`
	Email        string `form:"email" label:"Email" validate:"required,email"`
	Password     string `form:"password" label:"Password" validate:"required,min=6"`
	AgreeToTerms string `form:"agreeToTerms" label:"Terms" validate:"required"`
}

// Credentials are what a successful login or registration stores in the
// session.
type Credentials struct {
	Token string
	User  shared.UserInfo
}

// authResponse is the bare object /auth/login and /auth/register answer with.
type authResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// LoginRecord is one audited sign-in.
type LoginRecord struct {
	SessionID string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
	IP        string
	UserAgent string
}

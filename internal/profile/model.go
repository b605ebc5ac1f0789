// Package profile shows and edits the signed-in user's account.
package profile

import (
	"time"

	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// Profile is the account record returned by /api/profile.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Birthday string `json:"birthday,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// UserInfo returns the session view of p.
func (p Profile) UserInfo() shared.UserInfo {
	return shared.UserInfo{Username: p.Username, Email: p.Email, FullName: p.FullName, Role: p.Role}
}

// FromUserInfo builds a Profile from the session copy, used when the backend
// cannot be reached.
func FromUserInfo(u shared.UserInfo) Profile {
	return Profile{Username: u.Username, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

// Form edits the display name and email.
type Form struct {
	FullName string `form:"fullName" json:"fullName" label:"Full name" validate:"required,min=2,max=100"`
	Email    string `form:"email" json:"email" label:"Email" validate:"required,email,max=100"`
}

// PasswordForm changes the account password.
type PasswordForm struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword" label:"Current password" validate:"required"`
	NewPassword     string `form:"newPassword" json:"newPassword" label:"New password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" label:"Confirm password" validate:"required,eqfield=NewPassword"`
}

// Greeting returns the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Good Morning"
	case h >= 12 && h < 17:
		return "Good Afternoon"
	case h >= 17 && h < 21:
		return "Good Evening"
	default:
		return "Good Night"
	}
}

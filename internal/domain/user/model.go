package user

import (
	"errors"
	"strings"

	"timetable/internal/domain/form"
)

// Domain errors
var (
	ErrEmptyEmail = errors.New("user email cannot be empty")
)

// User is the account behind the current session, as returned by /user/me.
type User struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	RoleID      *int    `json:"role_id"`
	CollegeID   *int    `json:"college_id"`
}

// DisplayName prefers the username and falls back to the email address.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Username) != "" {
		return u.Username
	}
	return u.Email
}

// Validate checks the fields the backend always populates.
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

// LoginSchema is the set of fields accepted by the login form.
var LoginSchema = form.Schema{
	{Name: "email", Kind: form.Text, Required: "Email is required"},
	{Name: "password", Kind: form.Text, Required: "Password is required"},
}

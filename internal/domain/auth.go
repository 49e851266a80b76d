package domain

import (
	"errors"
	"time"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginRequired      = errors.New("login required")
	ErrClientTokenInvalid = errors.New("client token is invalid")
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// Visitor is the browser a request comes from: its client namespace and the
// page it is currently on.
type Visitor struct {
	ClientID   string
	CurrentURL string
}

// LoginRequiredError is returned by gated operations when the visitor has no
// session. Redirect points at the sign-in entry point.
type LoginRequiredError struct {
	Redirect string
}

func (e *LoginRequiredError) Error() string {
	return "login required, redirect to " + e.Redirect
}

func (e *LoginRequiredError) Unwrap() error {
	return ErrLoginRequired
}

// Navigation is the header chrome derived from the current session.
type Navigation struct {
	LoggedIn    bool   `json:"logged_in"`
	DisplayName string `json:"display_name,omitempty"`
	LoginText   string `json:"login_text"`
	LoginHref   string `json:"login_href"`
}

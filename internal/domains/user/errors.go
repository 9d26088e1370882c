package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Service-level errors
var (
	// The form flow collapses both into a generic failure; the JSON API
	// discloses which one it was.
	ErrEmailNotFound   = errors.New("no account for this email")
	ErrInvalidPassword = errors.New("invalid password")

	ErrInvalidImage = errors.New("invalid avatar image")
)

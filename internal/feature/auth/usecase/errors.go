// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidEmail is returned when an email address does not match the local@domain.tld shape.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrDuplicateUsername is returned when registering a username that is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail is returned when registering an email that another account already uses.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login failure. The message is
	// deliberately identical for an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidOrExpiredToken is returned when a reset token is unknown, already used, or expired.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

	// ErrUserNotFound is returned by the username-based reset lookup when the account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
)

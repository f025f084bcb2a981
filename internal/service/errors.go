// Package service provides business logic for the application.
package service

import "errors"

// Authentication and authorization failures surfaced to callers. Every
// failure inside the auth paths collapses into one of these; storage
// faults stay separate and surface as internal errors.
var (
	// ErrMissingCredential means no bearer credential was presented.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredentials covers unknown email, absent password, and
	// wrong password alike, so responses cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredCode covers unknown, consumed, and expired OTP
	// codes alike.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	// ErrRateLimited means a code was already issued within the cooldown.
	ErrRateLimited = errors.New("rate limited")
	// ErrAccessDenied means the caller has no relationship with the
	// target organization. Handlers map it to 404, same as ErrNotFound,
	// so existence never leaks.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound means the resource does not exist, or the caller may
	// not know whether it exists.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken rejects registration against an existing account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrOwnerRequired rejects organization mutations by non-owners.
	// Surfaced like ErrAccessDenied.
	ErrOwnerRequired = errors.New("owner required")
)

// Package model defines domain entities for the application.
package model

import "time"

// User represents an account identity.
// PasswordHash is empty for accounts created via OAuth or OTP login
// that never set a password.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PictureURL   string    `json:"picture_url,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether a password credential is set for this user.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Identity holds the authenticated caller attached to a request context.
// This is injected by the auth middleware after token verification.
type Identity struct {
	UserID string
	Email  string
}

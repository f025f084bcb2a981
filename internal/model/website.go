// Package model defines domain entities for the application.
package model

import "time"

// Website is a legacy resource owned directly by a user, bypassing the
// organization model. It keeps its own authorization path (direct user_id
// equality); do not route website access through organization checks.
type Website struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Domain    string    `json:"domain"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns this website.
func (w *Website) IsOwnedBy(userID string) bool {
	return w.UserID == userID
}

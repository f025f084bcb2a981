// Package model defines domain entities for the application.
package model

import "time"

// Membership role constants. The role set is open: unknown values are
// accepted and grant the same read access as "member".
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Organization is the tenant boundary. Agents and usage records belong to
// exactly one organization. The owner is implicitly a member even when no
// membership row exists for them.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URLSlug   string    `json:"url_slug"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the organization's owner.
func (o *Organization) IsOwnedBy(userID string) bool {
	return o.OwnerID == userID
}

// Membership grants a user access to an organization with a role.
// Unique per (OrganizationID, UserID).
type Membership struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrganizationUpdate carries optional fields for a partial update.
// Nil means "leave unchanged"; the repository decides column inclusion.
type OrganizationUpdate struct {
	Name    *string
	URLSlug *string
}

// IsZero reports whether the update changes nothing.
func (u OrganizationUpdate) IsZero() bool {
	return u.Name == nil && u.URLSlug == nil
}

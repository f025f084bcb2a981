package dto

import (
	"time"

	"github.com/agenthub/agenthub/internal/model"
)

// CreateOrganizationRequest is the body for POST /organizations.
type CreateOrganizationRequest struct {
	Name    string `json:"name"`
	URLSlug string `json:"url_slug"`
}

// UpdateOrganizationRequest is the body for PATCH /organizations/{id}.
// Absent fields are left unchanged.
type UpdateOrganizationRequest struct {
	Name    *string `json:"name,omitempty"`
	URLSlug *string `json:"url_slug,omitempty"`
}

// ToUpdate converts the request into the service-level update struct.
func (r UpdateOrganizationRequest) ToUpdate() model.OrganizationUpdate {
	return model.OrganizationUpdate{
		Name:    r.Name,
		URLSlug: r.URLSlug,
	}
}

// AddMemberRequest is the body for POST /organizations/{id}/members.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// OrganizationResponse is the public view of an organization.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URLSlug   string    `json:"url_slug"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOrganizationResponse converts a model to its response shape.
func ToOrganizationResponse(org *model.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		URLSlug:   org.URLSlug,
		OwnerID:   org.OwnerID,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// ToOrganizationListResponse converts a slice of organizations.
func ToOrganizationListResponse(orgs []*model.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, ToOrganizationResponse(org))
	}
	return out
}

// MembershipResponse is the public view of a membership.
type MembershipResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToMembershipResponse converts a model to its response shape.
func ToMembershipResponse(m *model.Membership) MembershipResponse {
	return MembershipResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           m.Role,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMembershipListResponse converts a slice of memberships.
func ToMembershipListResponse(members []*model.Membership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToMembershipResponse(m))
	}
	return out
}

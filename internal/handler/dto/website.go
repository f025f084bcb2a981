package dto

import (
	"time"

	"github.com/agenthub/agenthub/internal/model"
)

// RegisterWebsiteRequest is the body for POST /websites.
type RegisterWebsiteRequest struct {
	Domain string `json:"domain"`
}

// WebsiteResponse is the public view of a website registration.
type WebsiteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Domain    string    `json:"domain"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWebsiteResponse converts a model to its response shape.
func ToWebsiteResponse(site *model.Website) WebsiteResponse {
	return WebsiteResponse{
		ID:        site.ID,
		UserID:    site.UserID,
		Domain:    site.Domain,
		Verified:  site.Verified,
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
}

// ToWebsiteListResponse converts a slice of websites.
func ToWebsiteListResponse(sites []*model.Website) []WebsiteResponse {
	out := make([]WebsiteResponse, 0, len(sites))
	for _, site := range sites {
		out = append(out, ToWebsiteResponse(site))
	}
	return out
}

// Package model defines domain entities for the application.
package model

import "time"

// UsageRecord captures billable activity for an organization, optionally
// attributed to one of its agents. Access is resolved through the owning
// organization.
type UsageRecord struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	AgentID        string    `json:"agent_id,omitempty"`
	Kind           string    `json:"kind"`
	Quantity       int64     `json:"quantity"`
	RecordedAt     time.Time `json:"recorded_at"`
	CreatedAt      time.Time `json:"created_at"`
}

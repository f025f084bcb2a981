// Package model defines domain entities for the application.
package model

import "time"

// AgentStatus represents the lifecycle state of an agent.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusPaused   AgentStatus = "paused"
	AgentStatusArchived AgentStatus = "archived"
)

// IsValid checks if the status is a known value.
func (s AgentStatus) IsValid() bool {
	return s == AgentStatusActive || s == AgentStatusPaused || s == AgentStatusArchived
}

// Agent is an organization-owned resource. Access is resolved through the
// owning organization, never through the agent itself.
type Agent struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Status         AgentStatus `json:"status"`
	Capabilities   []string    `json:"capabilities,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AgentUpdate carries optional fields for a partial update.
// Nil means "leave unchanged".
type AgentUpdate struct {
	Name         *string
	Description  *string
	Status       *AgentStatus
	Capabilities *[]string
}

// IsZero reports whether the update changes nothing.
func (u AgentUpdate) IsZero() bool {
	return u.Name == nil && u.Description == nil && u.Status == nil && u.Capabilities == nil
}

package dto

import (
	"time"

	"github.com/agenthub/agenthub/internal/model"
)

// CreateAgentRequest is the body for POST /organizations/{id}/agents.
type CreateAgentRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// UpdateAgentRequest is the body for PATCH /agents/{id}.
// Absent fields are left unchanged.
type UpdateAgentRequest struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Capabilities *[]string `json:"capabilities,omitempty"`
}

// ToUpdate converts the request into the service-level update struct.
func (r UpdateAgentRequest) ToUpdate() model.AgentUpdate {
	update := model.AgentUpdate{
		Name:         r.Name,
		Description:  r.Description,
		Capabilities: r.Capabilities,
	}
	if r.Status != nil {
		status := model.AgentStatus(*r.Status)
		update.Status = &status
	}
	return update
}

// AgentResponse is the public view of an agent.
type AgentResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Capabilities   []string  `json:"capabilities,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToAgentResponse converts a model to its response shape.
func ToAgentResponse(agent *model.Agent) AgentResponse {
	return AgentResponse{
		ID:             agent.ID,
		OrganizationID: agent.OrganizationID,
		Name:           agent.Name,
		Description:    agent.Description,
		Status:         string(agent.Status),
		Capabilities:   agent.Capabilities,
		CreatedAt:      agent.CreatedAt,
		UpdatedAt:      agent.UpdatedAt,
	}
}

// ToAgentListResponse converts a slice of agents.
func ToAgentListResponse(agents []*model.Agent) []AgentResponse {
	out := make([]AgentResponse, 0, len(agents))
	for _, agent := range agents {
		out = append(out, ToAgentResponse(agent))
	}
	return out
}

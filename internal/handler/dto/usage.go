package dto

import (
	"time"

	"github.com/agenthub/agenthub/internal/model"
)

// RecordUsageRequest is the body for POST /organizations/{id}/usage.
type RecordUsageRequest struct {
	AgentID    string     `json:"agent_id,omitempty"`
	Kind       string     `json:"kind"`
	Quantity   int64      `json:"quantity"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// UsageRecordResponse is the public view of a usage record.
type UsageRecordResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	AgentID        string    `json:"agent_id,omitempty"`
	Kind           string    `json:"kind"`
	Quantity       int64     `json:"quantity"`
	RecordedAt     time.Time `json:"recorded_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToUsageRecordResponse converts a model to its response shape.
func ToUsageRecordResponse(rec *model.UsageRecord) UsageRecordResponse {
	return UsageRecordResponse{
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
		AgentID:        rec.AgentID,
		Kind:           rec.Kind,
		Quantity:       rec.Quantity,
		RecordedAt:     rec.RecordedAt,
		CreatedAt:      rec.CreatedAt,
	}
}

// ToUsageRecordListResponse converts a slice of usage records.
func ToUsageRecordListResponse(records []*model.UsageRecord) []UsageRecordResponse {
	out := make([]UsageRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, ToUsageRecordResponse(rec))
	}
	return out
}

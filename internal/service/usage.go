package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/repository"
)

// Validation errors for usage record input.
var (
	ErrInvalidUsageKind     = errors.New("invalid usage kind")
	ErrInvalidUsageQuantity = errors.New("quantity must be positive")
)

const defaultUsageListLimit = 100

// UsageService handles usage record business logic. Access runs through
// the owning organization, like agents.
type UsageService struct {
	repo  *repository.Repository
	authz *Authz
}

// NewUsageService creates a UsageService.
func NewUsageService(repo *repository.Repository, authz *Authz) *UsageService {
	return &UsageService{repo: repo, authz: authz}
}

// RecordUsageInput carries fields for a new usage record.
type RecordUsageInput struct {
	OrganizationID string
	AgentID        string
	Kind           string
	Quantity       int64
	RecordedAt     time.Time
}

// Record inserts a usage record for an organization the caller can access.
// When an agent is named, it must belong to the same organization.
func (s *UsageService) Record(ctx context.Context, callerID string, input RecordUsageInput) (*model.UsageRecord, error) {
	if _, err := s.authz.RequireOrganizationAccess(ctx, callerID, input.OrganizationID); err != nil {
		return nil, err
	}

	if input.Kind == "" {
		return nil, ErrInvalidUsageKind
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidUsageQuantity
	}

	if input.AgentID != "" {
		agent, err := s.authz.RequireAgentAccess(ctx, callerID, input.AgentID)
		if err != nil {
			return nil, err
		}
		if agent.OrganizationID != input.OrganizationID {
			return nil, ErrNotFound
		}
	}

	now := time.Now()
	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = now
	}

	rec := &model.UsageRecord{
		ID:             ulid.Make().String(),
		OrganizationID: input.OrganizationID,
		AgentID:        input.AgentID,
		Kind:           input.Kind,
		Quantity:       input.Quantity,
		RecordedAt:     recordedAt,
		CreatedAt:      now,
	}

	if err := s.repo.CreateUsageRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create usage record: %w", err)
	}

	return rec, nil
}

// Get returns a usage record the caller can access. Missing and denied
// are indistinguishable.
func (s *UsageService) Get(ctx context.Context, callerID, recordID string) (*model.UsageRecord, error) {
	return s.authz.RequireUsageRecordAccess(ctx, callerID, recordID)
}

// List returns recent usage records of an organization the caller can
// access.
func (s *UsageService) List(ctx context.Context, callerID, orgID string, limit int) ([]*model.UsageRecord, error) {
	if _, err := s.authz.RequireOrganizationAccess(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > defaultUsageListLimit {
		limit = defaultUsageListLimit
	}

	records, err := s.repo.ListUsageRecordsByOrganization(ctx, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	return records, nil
}

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

// Validation errors for agent input.
var (
	ErrInvalidAgentName   = errors.New("invalid agent name")
	ErrInvalidAgentStatus = errors.New("invalid agent status")
)

const maxAgentNameLength = 120

// AgentService handles agent business logic. All access runs through the
// owning organization.
type AgentService struct {
	repo  *repository.Repository
	authz *Authz
}

// NewAgentService creates an AgentService.
func NewAgentService(repo *repository.Repository, authz *Authz) *AgentService {
	return &AgentService{repo: repo, authz: authz}
}

// CreateAgentInput carries fields for a new agent.
type CreateAgentInput struct {
	OrganizationID string
	Name           string
	Description    string
	Capabilities   []string
}

// Create makes a new agent under an organization the caller can access.
func (s *AgentService) Create(ctx context.Context, callerID string, input CreateAgentInput) (*model.Agent, error) {
	if _, err := s.authz.RequireOrganizationAccess(ctx, callerID, input.OrganizationID); err != nil {
		return nil, err
	}

	if input.Name == "" || len(input.Name) > maxAgentNameLength {
		return nil, ErrInvalidAgentName
	}

	now := time.Now()
	agent := &model.Agent{
		ID:             ulid.Make().String(),
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Description:    input.Description,
		Status:         model.AgentStatusActive,
		Capabilities:   input.Capabilities,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return agent, nil
}

// Get returns an agent the caller can access. Missing and denied are
// indistinguishable.
func (s *AgentService) Get(ctx context.Context, callerID, agentID string) (*model.Agent, error) {
	return s.authz.RequireAgentAccess(ctx, callerID, agentID)
}

// List returns the agents of an organization the caller can access.
func (s *AgentService) List(ctx context.Context, callerID, orgID string) ([]*model.Agent, error) {
	if _, err := s.authz.RequireOrganizationAccess(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	agents, err := s.repo.ListAgentsByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// Update applies a partial update to an agent the caller can access.
func (s *AgentService) Update(ctx context.Context, callerID, agentID string, update model.AgentUpdate) (*model.Agent, error) {
	if _, err := s.authz.RequireAgentAccess(ctx, callerID, agentID); err != nil {
		return nil, err
	}

	if update.Name != nil && (*update.Name == "" || len(*update.Name) > maxAgentNameLength) {
		return nil, ErrInvalidAgentName
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ErrInvalidAgentStatus
	}

	agent, err := s.repo.UpdateAgent(ctx, agentID, update)
	if err != nil {
		if errors.Is(err, repository.ErrAgentNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update agent: %w", err)
	}

	return agent, nil
}

// Delete removes an agent the caller can access.
func (s *AgentService) Delete(ctx context.Context, callerID, agentID string) error {
	if _, err := s.authz.RequireAgentAccess(ctx, callerID, agentID); err != nil {
		return err
	}

	if err := s.repo.DeleteAgent(ctx, agentID); err != nil {
		if errors.Is(err, repository.ErrAgentNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/agenthub/agenthub/internal/model"
)

// ErrAgentNotFound indicates the agent row does not exist.
var ErrAgentNotFound = errors.New("agent not found")

// CreateAgent inserts a new agent.
func (r *Repository) CreateAgent(ctx context.Context, agent *model.Agent) error {
	query := `
		INSERT INTO agents (id, organization_id, name, description, status, capabilities, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		agent.ID,
		agent.OrganizationID,
		agent.Name,
		agent.Description,
		string(agent.Status),
		pq.Array(agent.Capabilities),
		agent.CreatedAt,
		agent.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}

// GetAgentByID retrieves an agent by ID.
func (r *Repository) GetAgentByID(ctx context.Context, id string) (*model.Agent, error) {
	query := `
		SELECT id, organization_id, name, description, status, capabilities, created_at, updated_at
		FROM agents
		WHERE id = $1
	`

	var agent model.Agent
	var status string
	var capabilities []string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&agent.ID,
		&agent.OrganizationID,
		&agent.Name,
		&agent.Description,
		&status,
		pq.Array(&capabilities),
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	agent.Status = model.AgentStatus(status)
	agent.Capabilities = capabilities
	return &agent, nil
}

// UpdateAgent applies a partial update. Nil fields are left unchanged.
func (r *Repository) UpdateAgent(ctx context.Context, id string, update model.AgentUpdate) (*model.Agent, error) {
	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	var capabilities any
	if update.Capabilities != nil {
		capabilities = pq.Array(*update.Capabilities)
	}

	query := `
		UPDATE agents
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status),
		    capabilities = COALESCE($5, capabilities),
		    updated_at = $6
		WHERE id = $1
		RETURNING id, organization_id, name, description, status, capabilities, created_at, updated_at
	`

	var agent model.Agent
	var gotStatus string
	var gotCapabilities []string
	err := r.pool.QueryRow(ctx, query, id, update.Name, update.Description, status, capabilities, time.Now()).Scan(
		&agent.ID,
		&agent.OrganizationID,
		&agent.Name,
		&agent.Description,
		&gotStatus,
		pq.Array(&gotCapabilities),
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	agent.Status = model.AgentStatus(gotStatus)
	agent.Capabilities = gotCapabilities
	return &agent, nil
}

// DeleteAgent removes an agent.
func (r *Repository) DeleteAgent(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// ListAgentsByOrganization returns all agents belonging to an organization.
func (r *Repository) ListAgentsByOrganization(ctx context.Context, orgID string) ([]*model.Agent, error) {
	query := `
		SELECT id, organization_id, name, description, status, capabilities, created_at, updated_at
		FROM agents
		WHERE organization_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*model.Agent
	for rows.Next() {
		var agent model.Agent
		var status string
		var capabilities []string
		if err := rows.Scan(
			&agent.ID,
			&agent.OrganizationID,
			&agent.Name,
			&agent.Description,
			&status,
			pq.Array(&capabilities),
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agent.Status = model.AgentStatus(status)
		agent.Capabilities = capabilities
		agents = append(agents, &agent)
	}

	return agents, rows.Err()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agenthub/agenthub/internal/model"
)

// ErrUsageRecordNotFound indicates the usage record row does not exist.
var ErrUsageRecordNotFound = errors.New("usage record not found")

// CreateUsageRecord inserts a new usage record.
func (r *Repository) CreateUsageRecord(ctx context.Context, rec *model.UsageRecord) error {
	query := `
		INSERT INTO usage_records (id, organization_id, agent_id, kind, quantity, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.OrganizationID,
		nullable(rec.AgentID),
		rec.Kind,
		rec.Quantity,
		rec.RecordedAt,
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create usage record: %w", err)
	}

	return nil
}

// GetUsageRecordByID retrieves a usage record by ID.
func (r *Repository) GetUsageRecordByID(ctx context.Context, id string) (*model.UsageRecord, error) {
	query := `
		SELECT id, organization_id, COALESCE(agent_id, ''), kind, quantity, recorded_at, created_at
		FROM usage_records
		WHERE id = $1
	`

	var rec model.UsageRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.OrganizationID,
		&rec.AgentID,
		&rec.Kind,
		&rec.Quantity,
		&rec.RecordedAt,
		&rec.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUsageRecordNotFound
		}
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}

	return &rec, nil
}

// ListUsageRecordsByOrganization returns usage records for an organization,
// newest first.
func (r *Repository) ListUsageRecordsByOrganization(ctx context.Context, orgID string, limit int) ([]*model.UsageRecord, error) {
	query := `
		SELECT id, organization_id, COALESCE(agent_id, ''), kind, quantity, recorded_at, created_at
		FROM usage_records
		WHERE organization_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage records: %w", err)
	}
	defer rows.Close()

	var records []*model.UsageRecord
	for rows.Next() {
		var rec model.UsageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.OrganizationID,
			&rec.AgentID,
			&rec.Kind,
			&rec.Quantity,
			&rec.RecordedAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

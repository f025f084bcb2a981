package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agenthub/agenthub/internal/model"
)

// Common errors for website repository operations.
var (
	ErrWebsiteNotFound = errors.New("website not found")
	ErrDomainExists    = errors.New("domain already registered")
)

// CreateWebsite inserts a new website registration.
func (r *Repository) CreateWebsite(ctx context.Context, site *model.Website) error {
	query := `
		INSERT INTO websites (id, user_id, domain, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		site.ID,
		site.UserID,
		site.Domain,
		site.Verified,
		site.CreatedAt,
		site.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDomainExists
		}
		return fmt.Errorf("failed to create website: %w", err)
	}

	return nil
}

// GetWebsiteByID retrieves a website by ID.
func (r *Repository) GetWebsiteByID(ctx context.Context, id string) (*model.Website, error) {
	query := `
		SELECT id, user_id, domain, verified, created_at, updated_at
		FROM websites
		WHERE id = $1
	`

	var site model.Website
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&site.ID,
		&site.UserID,
		&site.Domain,
		&site.Verified,
		&site.CreatedAt,
		&site.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("failed to get website: %w", err)
	}

	return &site, nil
}

// ListWebsitesByUser returns all websites registered by a user.
func (r *Repository) ListWebsitesByUser(ctx context.Context, userID string) ([]*model.Website, error) {
	query := `
		SELECT id, user_id, domain, verified, created_at, updated_at
		FROM websites
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	var sites []*model.Website
	for rows.Next() {
		var site model.Website
		if err := rows.Scan(
			&site.ID,
			&site.UserID,
			&site.Domain,
			&site.Verified,
			&site.CreatedAt,
			&site.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		sites = append(sites, &site)
	}

	return sites, rows.Err()
}

// DeleteWebsite removes a website registration.
func (r *Repository) DeleteWebsite(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM websites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWebsiteNotFound
	}
	return nil
}

// MarkWebsiteVerified flips the verified flag on a registration.
func (r *Repository) MarkWebsiteVerified(ctx context.Context, id string) error {
	query := `
		UPDATE websites
		SET verified = true, updated_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark website verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWebsiteNotFound
	}
	return nil
}

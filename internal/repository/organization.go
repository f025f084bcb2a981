package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agenthub/agenthub/internal/model"
)

// Common errors for organization repository operations.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSlugExists           = errors.New("url slug already exists")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipExists     = errors.New("membership already exists")
)

// CreateOrganization inserts a new organization.
func (r *Repository) CreateOrganization(ctx context.Context, org *model.Organization) error {
	query := `
		INSERT INTO organizations (id, name, url_slug, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		org.ID,
		org.Name,
		org.URLSlug,
		org.OwnerID,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

// GetOrganizationByID retrieves an organization by ID.
func (r *Repository) GetOrganizationByID(ctx context.Context, id string) (*model.Organization, error) {
	query := `
		SELECT id, name, url_slug, owner_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org model.Organization
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.URLSlug,
		&org.OwnerID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

// UpdateOrganization applies a partial update. Nil fields are left
// unchanged; the column list is fixed, never string-built.
func (r *Repository) UpdateOrganization(ctx context.Context, id string, update model.OrganizationUpdate) (*model.Organization, error) {
	query := `
		UPDATE organizations
		SET name = COALESCE($2, name),
		    url_slug = COALESCE($3, url_slug),
		    updated_at = $4
		WHERE id = $1
		RETURNING id, name, url_slug, owner_id, created_at, updated_at
	`

	var org model.Organization
	err := r.pool.QueryRow(ctx, query, id, update.Name, update.URLSlug, time.Now()).Scan(
		&org.ID,
		&org.Name,
		&org.URLSlug,
		&org.OwnerID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return &org, nil
}

// DeleteOrganization removes an organization. Memberships and owned
// resources cascade at the schema level.
func (r *Repository) DeleteOrganization(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

// ListOrganizationsForUser returns organizations the user owns or is a
// member of. Listing filters rather than rejects.
func (r *Repository) ListOrganizationsForUser(ctx context.Context, userID string) ([]*model.Organization, error) {
	query := `
		SELECT DISTINCT o.id, o.name, o.url_slug, o.owner_id, o.created_at, o.updated_at
		FROM organizations o
		LEFT JOIN memberships m ON m.organization_id = o.id AND m.user_id = $1
		WHERE o.owner_id = $1 OR m.user_id IS NOT NULL
		ORDER BY o.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*model.Organization
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.URLSlug,
			&org.OwnerID,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}

	return orgs, rows.Err()
}

// CreateMembership inserts a membership row.
func (r *Repository) CreateMembership(ctx context.Context, m *model.Membership) error {
	query := `
		INSERT INTO memberships (id, organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.OrganizationID,
		m.UserID,
		m.Role,
		m.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrMembershipExists
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

// GetMembership retrieves the membership row for (organization, user).
func (r *Repository) GetMembership(ctx context.Context, orgID, userID string) (*model.Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2
	`

	var m model.Membership
	err := r.pool.QueryRow(ctx, query, orgID, userID).Scan(
		&m.ID,
		&m.OrganizationID,
		&m.UserID,
		&m.Role,
		&m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// ListMemberships returns all membership rows for an organization.
func (r *Repository) ListMemberships(ctx context.Context, orgID string) ([]*model.Membership, error) {
	query := `
		SELECT id, organization_id, user_id, role, created_at
		FROM memberships
		WHERE organization_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []*model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.UserID,
			&m.Role,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

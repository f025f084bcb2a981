package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/repository"
)

// Validation errors for organization input.
var (
	ErrInvalidOrgName = errors.New("invalid organization name")
	ErrInvalidSlug    = errors.New("invalid url slug")
	ErrSlugTaken      = errors.New("url slug already taken")
)

// Slug validation regex: 3-50 chars, lowercase alphanumeric + hyphen.
var slugRegex = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

const maxOrgNameLength = 120

// OrgService handles organization business logic.
type OrgService struct {
	repo  *repository.Repository
	authz *Authz
}

// NewOrgService creates an OrgService.
func NewOrgService(repo *repository.Repository, authz *Authz) *OrgService {
	return &OrgService{repo: repo, authz: authz}
}

// CreateOrganizationInput carries fields for a new organization.
type CreateOrganizationInput struct {
	Name    string
	URLSlug string
	OwnerID string
}

// Create makes a new organization owned by the caller. The owner needs no
// membership row; ownership alone grants access.
func (s *OrgService) Create(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	if input.Name == "" || len(input.Name) > maxOrgNameLength {
		return nil, ErrInvalidOrgName
	}
	if !slugRegex.MatchString(input.URLSlug) {
		return nil, ErrInvalidSlug
	}

	now := time.Now()
	org := &model.Organization{
		ID:        ulid.Make().String(),
		Name:      input.Name,
		URLSlug:   input.URLSlug,
		OwnerID:   input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	return org, nil
}

// Get returns an organization the caller owns or belongs to.
func (s *OrgService) Get(ctx context.Context, callerID, orgID string) (*model.Organization, error) {
	return s.authz.RequireOrganizationAccess(ctx, callerID, orgID)
}

// List returns the organizations the caller owns or belongs to. Listing
// filters rather than rejects.
func (s *OrgService) List(ctx context.Context, callerID string) ([]*model.Organization, error) {
	orgs, err := s.repo.ListOrganizationsForUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Update applies a partial update. Owner only; membership is not enough.
func (s *OrgService) Update(ctx context.Context, callerID, orgID string, update model.OrganizationUpdate) (*model.Organization, error) {
	if _, err := s.authz.RequireOrganizationOwner(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	if update.URLSlug != nil && !slugRegex.MatchString(*update.URLSlug) {
		return nil, ErrInvalidSlug
	}
	if update.Name != nil && (*update.Name == "" || len(*update.Name) > maxOrgNameLength) {
		return nil, ErrInvalidOrgName
	}

	org, err := s.repo.UpdateOrganization(ctx, orgID, update)
	if err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return nil, ErrSlugTaken
		}
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}

	return org, nil
}

// Delete removes an organization. Owner only.
func (s *OrgService) Delete(ctx context.Context, callerID, orgID string) error {
	if _, err := s.authz.RequireOrganizationOwner(ctx, callerID, orgID); err != nil {
		return err
	}

	if err := s.repo.DeleteOrganization(ctx, orgID); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

// AddMember grants a user membership. Owner only.
func (s *OrgService) AddMember(ctx context.Context, callerID, orgID, userID, role string) (*model.Membership, error) {
	if _, err := s.authz.RequireOrganizationOwner(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	if role == "" {
		role = model.RoleMember
	}

	m := &model.Membership{
		ID:             ulid.Make().String(),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.CreateMembership(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMembershipExists) {
			// Idempotent grant: return the existing row.
			return s.repo.GetMembership(ctx, orgID, userID)
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}

	return m, nil
}

// ListMembers returns the membership rows of an organization the caller
// can access.
func (s *OrgService) ListMembers(ctx context.Context, callerID, orgID string) ([]*model.Membership, error) {
	if _, err := s.authz.RequireOrganizationAccess(ctx, callerID, orgID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMemberships(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/repository"
)

// Validation errors for website input.
var (
	ErrInvalidDomain = errors.New("invalid domain")
	ErrDomainTaken   = errors.New("domain already registered")
)

// domainRegex is a pragmatic hostname check, not a full RFC validation.
var domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// WebsiteService handles the legacy user-owned website resource. It never
// consults organizations: access is direct user_id equality.
type WebsiteService struct {
	repo  *repository.Repository
	authz *Authz
}

// NewWebsiteService creates a WebsiteService.
func NewWebsiteService(repo *repository.Repository, authz *Authz) *WebsiteService {
	return &WebsiteService{repo: repo, authz: authz}
}

// Register creates a website registration owned by the caller.
func (s *WebsiteService) Register(ctx context.Context, callerID, domain string) (*model.Website, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !domainRegex.MatchString(domain) {
		return nil, ErrInvalidDomain
	}

	now := time.Now()
	site := &model.Website{
		ID:        ulid.Make().String(),
		UserID:    callerID,
		Domain:    domain,
		Verified:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateWebsite(ctx, site); err != nil {
		if errors.Is(err, repository.ErrDomainExists) {
			return nil, ErrDomainTaken
		}
		return nil, fmt.Errorf("create website: %w", err)
	}

	return site, nil
}

// Get returns a website the caller owns. Missing and not-owned are
// indistinguishable.
func (s *WebsiteService) Get(ctx context.Context, callerID, websiteID string) (*model.Website, error) {
	return s.authz.RequireWebsiteOwner(ctx, callerID, websiteID)
}

// List returns the caller's websites.
func (s *WebsiteService) List(ctx context.Context, callerID string) ([]*model.Website, error) {
	sites, err := s.repo.ListWebsitesByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return sites, nil
}

// Delete removes a website the caller owns.
func (s *WebsiteService) Delete(ctx context.Context, callerID, websiteID string) error {
	if _, err := s.authz.RequireWebsiteOwner(ctx, callerID, websiteID); err != nil {
		return err
	}

	if err := s.repo.DeleteWebsite(ctx, websiteID); err != nil {
		if errors.Is(err, repository.ErrWebsiteNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete website: %w", err)
	}
	return nil
}

// Verify marks a website the caller owns as verified.
func (s *WebsiteService) Verify(ctx context.Context, callerID, websiteID string) (*model.Website, error) {
	if _, err := s.authz.RequireWebsiteOwner(ctx, callerID, websiteID); err != nil {
		return nil, err
	}

	if err := s.repo.MarkWebsiteVerified(ctx, websiteID); err != nil {
		if errors.Is(err, repository.ErrWebsiteNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("verify website: %w", err)
	}

	return s.repo.GetWebsiteByID(ctx, websiteID)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenthub/agenthub/internal/metrics"
	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/repository"
)

// AuthzStore is the subset of the repository the resolver reads from.
// Every decision is recomputed from a fresh read; nothing is cached.
type AuthzStore interface {
	GetOrganizationByID(ctx context.Context, id string) (*model.Organization, error)
	GetMembership(ctx context.Context, orgID, userID string) (*model.Membership, error)
	GetAgentByID(ctx context.Context, id string) (*model.Agent, error)
	GetUsageRecordByID(ctx context.Context, id string) (*model.UsageRecord, error)
	GetWebsiteByID(ctx context.Context, id string) (*model.Website, error)
}

// Authz resolves whether a caller may touch an organization-owned
// resource. Two independent predicates exist: the organization path
// (owner or member) for agents and usage records, and the direct-user
// path for legacy websites. They are deliberately not unified.
type Authz struct {
	store   AuthzStore
	metrics metrics.Recorder
}

// NewAuthz creates an authorization resolver.
func NewAuthz(store AuthzStore, recorder metrics.Recorder) *Authz {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Authz{store: store, metrics: recorder}
}

// hasOrganizationAccess reports whether the caller owns the organization
// or holds an explicit membership of any role. The owner passes even with
// zero membership rows.
func (a *Authz) hasOrganizationAccess(ctx context.Context, callerID string, org *model.Organization) (bool, error) {
	if org.IsOwnedBy(callerID) {
		return true, nil
	}

	_, err := a.store.GetMembership(ctx, org.ID, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("look up membership: %w", err)
	}
	return true, nil
}

// RequireOrganizationAccess loads the organization and checks the caller
// is its owner or a member. A missing organization yields ErrNotFound; a
// present one the caller has no relation to yields ErrAccessDenied. Both
// surface as 404.
func (a *Authz) RequireOrganizationAccess(ctx context.Context, callerID, orgID string) (*model.Organization, error) {
	org, err := a.store.GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("look up organization: %w", err)
	}

	ok, err := a.hasOrganizationAccess(ctx, callerID, org)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.metrics.IncAccessDecision("organization", "denied")
		return nil, ErrAccessDenied
	}

	a.metrics.IncAccessDecision("organization", "granted")
	return org, nil
}

// RequireOrganizationOwner loads the organization and checks the caller
// is its owner. Membership alone is insufficient for mutations.
func (a *Authz) RequireOrganizationOwner(ctx context.Context, callerID, orgID string) (*model.Organization, error) {
	org, err := a.store.GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("look up organization: %w", err)
	}

	if !org.IsOwnedBy(callerID) {
		a.metrics.IncAccessDecision("organization", "denied")
		return nil, ErrOwnerRequired
	}

	a.metrics.IncAccessDecision("organization", "granted")
	return org, nil
}

// RequireAgentAccess loads the agent and runs the organization check on
// its owning organization. "No such agent" and "agent exists but access
// denied" are indistinguishable: both return ErrNotFound.
func (a *Authz) RequireAgentAccess(ctx context.Context, callerID, agentID string) (*model.Agent, error) {
	agent, err := a.store.GetAgentByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrAgentNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("look up agent: %w", err)
	}

	if err := a.requireDerivedAccess(ctx, callerID, agent.OrganizationID, "agent"); err != nil {
		return nil, err
	}
	return agent, nil
}

// RequireUsageRecordAccess loads the record and runs the organization
// check on its owning organization. Missing and denied are both
// ErrNotFound.
func (a *Authz) RequireUsageRecordAccess(ctx context.Context, callerID, recordID string) (*model.UsageRecord, error) {
	rec, err := a.store.GetUsageRecordByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrUsageRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("look up usage record: %w", err)
	}

	if err := a.requireDerivedAccess(ctx, callerID, rec.OrganizationID, "usage_record"); err != nil {
		return nil, err
	}
	return rec, nil
}

// requireDerivedAccess runs the organization check for a resource that
// derived its organization ID from its own row. Denials collapse into
// ErrNotFound so resource existence never leaks.
func (a *Authz) requireDerivedAccess(ctx context.Context, callerID, orgID, resource string) error {
	org, err := a.store.GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("look up organization: %w", err)
	}

	ok, err := a.hasOrganizationAccess(ctx, callerID, org)
	if err != nil {
		return err
	}
	if !ok {
		a.metrics.IncAccessDecision(resource, "denied")
		return ErrNotFound
	}

	a.metrics.IncAccessDecision(resource, "granted")
	return nil
}

// RequireWebsiteOwner loads a website and checks direct user ownership.
// This is the legacy path: no organization indirection at all. Missing
// and denied are both ErrNotFound.
func (a *Authz) RequireWebsiteOwner(ctx context.Context, callerID, websiteID string) (*model.Website, error) {
	site, err := a.store.GetWebsiteByID(ctx, websiteID)
	if err != nil {
		if errors.Is(err, repository.ErrWebsiteNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("look up website: %w", err)
	}

	if !site.IsOwnedBy(callerID) {
		a.metrics.IncAccessDecision("website", "denied")
		return nil, ErrNotFound
	}

	a.metrics.IncAccessDecision("website", "granted")
	return site, nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/repository"
)

// fakeAuthzStore is an in-memory AuthzStore.
type fakeAuthzStore struct {
	orgs        map[string]*model.Organization
	memberships map[string]*model.Membership // keyed orgID + ":" + userID
	agents      map[string]*model.Agent
	usage       map[string]*model.UsageRecord
	websites    map[string]*model.Website
}

func newFakeAuthzStore() *fakeAuthzStore {
	return &fakeAuthzStore{
		orgs:        make(map[string]*model.Organization),
		memberships: make(map[string]*model.Membership),
		agents:      make(map[string]*model.Agent),
		usage:       make(map[string]*model.UsageRecord),
		websites:    make(map[string]*model.Website),
	}
}

func (f *fakeAuthzStore) addMembership(orgID, userID, role string) {
	f.memberships[orgID+":"+userID] = &model.Membership{
		ID:             "mem-" + userID,
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}
}

func (f *fakeAuthzStore) GetOrganizationByID(ctx context.Context, id string) (*model.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, repository.ErrOrganizationNotFound
	}
	return org, nil
}

func (f *fakeAuthzStore) GetMembership(ctx context.Context, orgID, userID string) (*model.Membership, error) {
	m, ok := f.memberships[orgID+":"+userID]
	if !ok {
		return nil, repository.ErrMembershipNotFound
	}
	return m, nil
}

func (f *fakeAuthzStore) GetAgentByID(ctx context.Context, id string) (*model.Agent, error) {
	agent, ok := f.agents[id]
	if !ok {
		return nil, repository.ErrAgentNotFound
	}
	return agent, nil
}

func (f *fakeAuthzStore) GetUsageRecordByID(ctx context.Context, id string) (*model.UsageRecord, error) {
	rec, ok := f.usage[id]
	if !ok {
		return nil, repository.ErrUsageRecordNotFound
	}
	return rec, nil
}

func (f *fakeAuthzStore) GetWebsiteByID(ctx context.Context, id string) (*model.Website, error) {
	site, ok := f.websites[id]
	if !ok {
		return nil, repository.ErrWebsiteNotFound
	}
	return site, nil
}

// newAuthzFixture seeds one organization owned by "owner" with member
// "member", one agent and one usage record inside it, and one website
// owned directly by "owner".
func newAuthzFixture() (*Authz, *fakeAuthzStore) {
	store := newFakeAuthzStore()
	store.orgs["org-1"] = &model.Organization{ID: "org-1", Name: "Org", OwnerID: "owner"}
	store.addMembership("org-1", "member", model.RoleMember)
	store.agents["agent-1"] = &model.Agent{ID: "agent-1", OrganizationID: "org-1", Name: "Agent"}
	store.usage["rec-1"] = &model.UsageRecord{ID: "rec-1", OrganizationID: "org-1", Kind: "tokens", Quantity: 1}
	store.websites["site-1"] = &model.Website{ID: "site-1", UserID: "owner", Domain: "example.com"}
	return NewAuthz(store, nil), store
}

func TestRequireOrganizationAccess(t *testing.T) {
	t.Parallel()

	authz, _ := newAuthzFixture()
	ctx := context.Background()

	// Owner passes without any membership row.
	if _, err := authz.RequireOrganizationAccess(ctx, "owner", "org-1"); err != nil {
		t.Errorf("owner should have access: %v", err)
	}

	// Member passes.
	if _, err := authz.RequireOrganizationAccess(ctx, "member", "org-1"); err != nil {
		t.Errorf("member should have access: %v", err)
	}

	// Stranger is denied.
	if _, err := authz.RequireOrganizationAccess(ctx, "stranger", "org-1"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("stranger: expected ErrAccessDenied, got %v", err)
	}

	// Missing organization is not found.
	if _, err := authz.RequireOrganizationAccess(ctx, "owner", "org-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing org: expected ErrNotFound, got %v", err)
	}
}

func TestRequireOrganizationOwner(t *testing.T) {
	t.Parallel()

	authz, _ := newAuthzFixture()
	ctx := context.Background()

	if _, err := authz.RequireOrganizationOwner(ctx, "owner", "org-1"); err != nil {
		t.Errorf("owner should pass: %v", err)
	}

	// Membership alone is insufficient for mutations.
	if _, err := authz.RequireOrganizationOwner(ctx, "member", "org-1"); !errors.Is(err, ErrOwnerRequired) {
		t.Errorf("member: expected ErrOwnerRequired, got %v", err)
	}

	if _, err := authz.RequireOrganizationOwner(ctx, "owner", "org-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing org: expected ErrNotFound, got %v", err)
	}
}

func TestRequireAgentAccess_DeniedLooksLikeMissing(t *testing.T) {
	t.Parallel()

	authz, _ := newAuthzFixture()
	ctx := context.Background()

	// Owner and member both reach the agent through the organization.
	if _, err := authz.RequireAgentAccess(ctx, "owner", "agent-1"); err != nil {
		t.Errorf("owner should reach agent: %v", err)
	}
	if _, err := authz.RequireAgentAccess(ctx, "member", "agent-1"); err != nil {
		t.Errorf("member should reach agent: %v", err)
	}

	// A stranger gets exactly the same error as for a missing agent, so
	// existence never leaks.
	errDenied := func() error {
		_, err := authz.RequireAgentAccess(ctx, "stranger", "agent-1")
		return err
	}()
	errMissing := func() error {
		_, err := authz.RequireAgentAccess(ctx, "stranger", "agent-nope")
		return err
	}()

	if !errors.Is(errDenied, ErrNotFound) {
		t.Errorf("denied: expected ErrNotFound, got %v", errDenied)
	}
	if !errors.Is(errMissing, ErrNotFound) {
		t.Errorf("missing: expected ErrNotFound, got %v", errMissing)
	}
	if errDenied.Error() != errMissing.Error() {
		t.Errorf("denied and missing must be indistinguishable: %q vs %q", errDenied, errMissing)
	}
}

func TestRequireUsageRecordAccess(t *testing.T) {
	t.Parallel()

	authz, _ := newAuthzFixture()
	ctx := context.Background()

	if _, err := authz.RequireUsageRecordAccess(ctx, "member", "rec-1"); err != nil {
		t.Errorf("member should reach usage record: %v", err)
	}
	if _, err := authz.RequireUsageRecordAccess(ctx, "stranger", "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger: expected ErrNotFound, got %v", err)
	}
}

func TestRequireWebsiteOwner_DirectPath(t *testing.T) {
	t.Parallel()

	authz, store := newAuthzFixture()
	ctx := context.Background()

	if _, err := authz.RequireWebsiteOwner(ctx, "owner", "site-1"); err != nil {
		t.Errorf("owner should reach website: %v", err)
	}

	// The website path checks the user directly. Organization membership
	// grants nothing here.
	if _, err := authz.RequireWebsiteOwner(ctx, "member", "site-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("member: expected ErrNotFound, got %v", err)
	}

	// And organization ownership of some org is equally irrelevant.
	store.websites["site-2"] = &model.Website{ID: "site-2", UserID: "someone-else", Domain: "other.com"}
	if _, err := authz.RequireWebsiteOwner(ctx, "owner", "site-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-owner: expected ErrNotFound, got %v", err)
	}
}

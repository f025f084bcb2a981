//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/testutil"
)

// ============================================================================
// Organization Repository Integration Tests
// ============================================================================

func TestIntegrationOrganizationRepository_CreateOrganization(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("org-owner"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("create"))

	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	retrieved, err := repo.GetOrganizationByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetOrganizationByID failed: %v", err)
	}

	if retrieved.Name != org.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, org.Name)
	}
	if retrieved.URLSlug != org.URLSlug {
		t.Errorf("URLSlug mismatch: got %q, want %q", retrieved.URLSlug, org.URLSlug)
	}
	if retrieved.OwnerID != owner.ID {
		t.Errorf("OwnerID mismatch: got %q, want %q", retrieved.OwnerID, owner.ID)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationOrganizationRepository_CreateOrganization_DuplicateSlug(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("dup-owner"))
	slug := testutil.UniqueSlug("dup")
	org1 := testutil.NewTestOrganization(t, owner.ID, slug)
	org2 := testutil.NewTestOrganization(t, owner.ID, slug)
	org2.ID = testutil.UniqueID("org") // Different ID, same url_slug

	if err := repo.CreateOrganization(ctx, org1); err != nil {
		t.Fatalf("CreateOrganization (first) failed: %v", err)
	}

	err := repo.CreateOrganization(ctx, org2)
	if !errors.Is(err, ErrSlugExists) {
		t.Errorf("Expected ErrSlugExists, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_GetByID_NotFound(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	_, err := repo.GetOrganizationByID(ctx, "nonexistent-id")
	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("Expected ErrOrganizationNotFound, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_UpdateOrganization_Partial(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("upd-owner"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("update"))

	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	// Update name only; slug must survive untouched
	newName := "Renamed Workspace"
	updated, err := repo.UpdateOrganization(ctx, org.ID, model.OrganizationUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateOrganization failed: %v", err)
	}

	if updated.Name != newName {
		t.Errorf("Name not updated: got %q, want %q", updated.Name, newName)
	}
	if updated.URLSlug != org.URLSlug {
		t.Errorf("URLSlug changed by name-only update: got %q, want %q", updated.URLSlug, org.URLSlug)
	}
	if updated.UpdatedAt.Before(org.CreatedAt) {
		t.Error("UpdatedAt should not precede CreatedAt")
	}
}

func TestIntegrationOrganizationRepository_UpdateOrganization_SlugCollision(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("col-owner"))
	org1 := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("taken"))
	org2 := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("other"))

	if err := repo.CreateOrganization(ctx, org1); err != nil {
		t.Fatalf("CreateOrganization (first) failed: %v", err)
	}
	if err := repo.CreateOrganization(ctx, org2); err != nil {
		t.Fatalf("CreateOrganization (second) failed: %v", err)
	}

	_, err := repo.UpdateOrganization(ctx, org2.ID, model.OrganizationUpdate{URLSlug: &org1.URLSlug})
	if !errors.Is(err, ErrSlugExists) {
		t.Errorf("Expected ErrSlugExists, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_DeleteOrganization(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("del-owner"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("delete"))

	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}
	if err := repo.DeleteOrganization(ctx, org.ID); err != nil {
		t.Fatalf("DeleteOrganization failed: %v", err)
	}

	_, err := repo.GetOrganizationByID(ctx, org.ID)
	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("Expected ErrOrganizationNotFound after delete, got: %v", err)
	}

	err = repo.DeleteOrganization(ctx, org.ID)
	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("Expected ErrOrganizationNotFound on second delete, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_ListForUser_OwnerAndMember(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("list-owner"))
	member := createTestUser(ctx, t, repo, testutil.UniqueEmail("list-member"))

	owned := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("owned"))
	joined := testutil.NewTestOrganization(t, member.ID, testutil.UniqueSlug("joined"))
	unrelated := testutil.NewTestOrganization(t, member.ID, testutil.UniqueSlug("unrelated"))

	for _, org := range []*model.Organization{owned, joined, unrelated} {
		if err := repo.CreateOrganization(ctx, org); err != nil {
			t.Fatalf("CreateOrganization failed: %v", err)
		}
	}

	// owner joins "joined" via membership; "unrelated" stays invisible to them
	m := testutil.NewTestMembership(t, joined.ID, owner.ID)
	if err := repo.CreateMembership(ctx, m); err != nil {
		t.Fatalf("CreateMembership failed: %v", err)
	}

	orgs, err := repo.ListOrganizationsForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListOrganizationsForUser failed: %v", err)
	}

	if len(orgs) != 2 {
		t.Fatalf("Expected 2 organizations, got %d", len(orgs))
	}
	seen := map[string]bool{}
	for _, org := range orgs {
		seen[org.ID] = true
	}
	if !seen[owned.ID] || !seen[joined.ID] {
		t.Errorf("List missing expected organizations: got %v", seen)
	}
	if seen[unrelated.ID] {
		t.Error("List should not include organizations the user has no tie to")
	}
}

func TestIntegrationOrganizationRepository_CreateMembership_Duplicate(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("m-owner"))
	member := createTestUser(ctx, t, repo, testutil.UniqueEmail("m-member"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("members"))

	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	m1 := testutil.NewTestMembership(t, org.ID, member.ID)
	m2 := testutil.NewTestMembership(t, org.ID, member.ID)
	m2.ID = testutil.UniqueID("membership")

	if err := repo.CreateMembership(ctx, m1); err != nil {
		t.Fatalf("CreateMembership (first) failed: %v", err)
	}

	err := repo.CreateMembership(ctx, m2)
	if !errors.Is(err, ErrMembershipExists) {
		t.Errorf("Expected ErrMembershipExists, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_GetMembership(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("g-owner"))
	member := createTestUser(ctx, t, repo, testutil.UniqueEmail("g-member"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("getmember"))

	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}
	m := testutil.NewTestMembership(t, org.ID, member.ID)
	if err := repo.CreateMembership(ctx, m); err != nil {
		t.Fatalf("CreateMembership failed: %v", err)
	}

	retrieved, err := repo.GetMembership(ctx, org.ID, member.ID)
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if retrieved.Role != m.Role {
		t.Errorf("Role mismatch: got %q, want %q", retrieved.Role, m.Role)
	}

	_, err = repo.GetMembership(ctx, org.ID, owner.ID)
	if !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound for non-member, got: %v", err)
	}
}

func TestIntegrationOrganizationRepository_ListMemberships(t *testing.T) {
	ctx, repo := newOrgTestEnv(t)

	owner := createTestUser(ctx, t, repo, testutil.UniqueEmail("lm-owner"))
	org := testutil.NewTestOrganization(t, owner.ID, testutil.UniqueSlug("roster"))
	if err := repo.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		u := createTestUser(ctx, t, repo, testutil.UniqueEmail("lm-member"))
		m := testutil.NewTestMembership(t, org.ID, u.ID)
		if err := repo.CreateMembership(ctx, m); err != nil {
			t.Fatalf("CreateMembership failed: %v", err)
		}
	}

	memberships, err := repo.ListMemberships(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListMemberships failed: %v", err)
	}
	if len(memberships) != 3 {
		t.Errorf("Expected 3 memberships, got %d", len(memberships))
	}
}

// ============================================================================
// Helpers
// ============================================================================

func createTestUser(ctx context.Context, t *testing.T, repo *Repository, email string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func newOrgTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	return ctx, repo
}

//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthub/agenthub/internal/testutil"
)

// ============================================================================
// User Repository Integration Tests
// ============================================================================

func TestIntegrationUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	email := testutil.UniqueEmail("dup")
	u1 := testutil.NewTestUser(t, email)
	u2 := testutil.NewTestUser(t, email)

	if err := repo.CreateUser(ctx, u1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, u2)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetByEmail(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	email := testutil.UniqueEmail("byemail")
	user := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}

	_, err = repo.GetUserByEmail(ctx, testutil.UniqueEmail("missing"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetOrCreateUser_Idempotent(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	email := testutil.UniqueEmail("idem")
	first := testutil.NewTestUser(t, email)

	created, err := repo.GetOrCreateUser(ctx, first)
	if err != nil {
		t.Fatalf("GetOrCreateUser (first) failed: %v", err)
	}
	if created.ID != first.ID {
		t.Errorf("Expected fresh user to keep ID %q, got %q", first.ID, created.ID)
	}

	// Second call with a brand new candidate record must return the
	// existing row, not insert another.
	second := testutil.NewTestUser(t, email)
	existing, err := repo.GetOrCreateUser(ctx, second)
	if err != nil {
		t.Fatalf("GetOrCreateUser (second) failed: %v", err)
	}
	if existing.ID != first.ID {
		t.Errorf("Expected existing user %q, got %q", first.ID, existing.ID)
	}
}

func TestIntegrationUserRepository_SetUserPassword(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("pw"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	hash := "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0"
	if err := repo.SetUserPassword(ctx, user.ID, hash); err != nil {
		t.Fatalf("SetUserPassword failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.PasswordHash != hash {
		t.Error("PasswordHash not persisted")
	}
	if !retrieved.HasPassword() {
		t.Error("HasPassword should report true after SetUserPassword")
	}

	err = repo.SetUserPassword(ctx, "nonexistent-id", hash)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound for unknown user, got: %v", err)
	}
}

func newUserTestEnv(t *testing.T) (context.Context, *Repository) {
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

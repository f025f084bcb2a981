package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/agenthub/agenthub/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema applies the named migration's down then up script.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_users")
}

// ResetOrganizationsSchema drops and recreates organizations and
// memberships for tests.
func ResetOrganizationsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_organizations")
}

// ResetAgentsSchema drops and recreates the agents schema for tests.
func ResetAgentsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_agents")
}

// ResetUsageRecordsSchema drops and recreates the usage_records schema
// for tests.
func ResetUsageRecordsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000004_usage_records")
}

// ResetWebsitesSchema drops and recreates the websites schema for tests.
func ResetWebsitesSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000005_websites")
}

// ResetOTPCodesSchema drops and recreates the otp_codes schema for tests.
func ResetOTPCodesSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000006_otp_codes")
}

// ResetAllSchemas rebuilds every table in dependency order.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	names := []string{
		"000001_users",
		"000002_organizations",
		"000003_agents",
		"000004_usage_records",
		"000005_websites",
		"000006_otp_codes",
	}
	for _, name := range names {
		if err := resetSchema(ctx, pool, name); err != nil {
			return fmt.Errorf("reset %s: %w", name, err)
		}
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:        fmt.Sprintf("user-%d", now.UnixNano()),
		Email:     email,
		Name:      "Test User",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestOrganization creates a test organization owned by ownerID.
func NewTestOrganization(t testing.TB, ownerID, slug string) *model.Organization {
	t.Helper()
	now := time.Now().UTC()
	return &model.Organization{
		ID:        fmt.Sprintf("org-%d", now.UnixNano()),
		Name:      "Test Org " + slug,
		URLSlug:   slug,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestMembership creates a test membership row.
func NewTestMembership(t testing.TB, orgID, userID string) *model.Membership {
	t.Helper()
	now := time.Now().UTC()
	return &model.Membership{
		ID:             fmt.Sprintf("mem-%d", now.UnixNano()),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           model.RoleMember,
		CreatedAt:      now,
	}
}

// NewTestAgent creates a test agent under an organization.
func NewTestAgent(t testing.TB, orgID string) *model.Agent {
	t.Helper()
	now := time.Now().UTC()
	return &model.Agent{
		ID:             fmt.Sprintf("agent-%d", now.UnixNano()),
		OrganizationID: orgID,
		Name:           "Test Agent",
		Status:         model.AgentStatusActive,
		Capabilities:   []string{"chat"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewTestWebsite creates a test website registration.
func NewTestWebsite(t testing.TB, userID, domain string) *model.Website {
	t.Helper()
	now := time.Now().UTC()
	return &model.Website{
		ID:        fmt.Sprintf("site-%d", now.UnixNano()),
		UserID:    userID,
		Domain:    domain,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueSlug generates a unique url slug for tests.
func UniqueSlug(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

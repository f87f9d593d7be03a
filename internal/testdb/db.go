//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/account-service/internal/config"
	"github.com/phrazzld/account-service/internal/platform/postgres"
)

var migrateOnce sync.Once

// GetTestDatabaseURL returns the database URL for integration tests, or ""
// when none is configured.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv(config.EnvPrefix + "_DATABASE_URL")
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// IsCIEnvironment reports whether tests run under a CI system. A missing
// database there is a failure rather than a skip.
func IsCIEnvironment() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetTestDBWithT opens a connection, applies migrations once per test binary
// and registers cleanup. The test is skipped when no database is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		if IsCIEnvironment() {
			t.Fatal("DATABASE_URL must be set for integration tests in CI")
		}
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{Driver: "postgres", URL: dbURL, MaxOpenConns: 10})
	if err != nil {
		t.Fatalf("failed to connect to %s: %v", postgres.MaskURL(dbURL), err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, "up", nil)
	})
	if migrateErr != nil {
		t.Fatalf("failed to apply migrations: %v", migrateErr)
	}

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

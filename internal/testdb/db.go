package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/platform/migrations"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the Postgres URL for tests, or "" when none is
// configured.
func GetTestDatabaseURL() string {
	if url := os.Getenv("PHRASEBOOK_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// OpenSQLite returns a migrated in-memory SQLite database that is closed
// when the test ends. Every call yields an independent database.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(config.DriverSQLite, "file::memory:?_pragma=busy_timeout(5000)")
	require.NoError(t, err, "failed to open sqlite")

	// An in-memory database lives only as long as its single connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	t.Cleanup(func() { _ = db.Close() })

	migrate(t, db, config.DriverSQLite)
	return db
}

// OpenPostgres returns a migrated Postgres database with an empty phrases
// table. The test is skipped when no database URL is configured.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL not set - skipping postgres test")
	}

	db, err := sql.Open(config.DriverPostgres, dbURL)
	require.NoError(t, err, "failed to open postgres")
	db.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "database ping failed")

	migrate(t, db, config.DriverPostgres)

	_, err = db.ExecContext(ctx, "TRUNCATE phrases")
	require.NoError(t, err, "failed to reset phrases table")
	return db
}

func migrate(t *testing.T, db *sql.DB, driver string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := migrations.Up(ctx, db, driver, nil)
	require.NoError(t, err, "failed to run migrations")
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

package migrations_test

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/phrazzld/phrasebook/internal/config"
	"github.com/phrazzld/phrasebook/internal/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFiles(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{config.DriverPostgres, config.DriverSQLite} {
		fsys, err := migrations.Files(driver)
		require.NoError(t, err, driver)

		matches, err := fs.Glob(fsys, "*.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, matches, driver)
	}

	_, err := migrations.Files("mysql")
	assert.Error(t, err)
}

func TestUp_SQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openMemoryDB(t)

	pending, err := migrations.Pending(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	assert.True(t, pending)

	applied, err := migrations.Up(ctx, db, config.DriverSQLite, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	pending, err = migrations.Pending(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	assert.False(t, pending)

	// Running again is a no-op.
	applied, err = migrations.Up(ctx, db, config.DriverSQLite, nil)
	require.NoError(t, err)
	assert.Zero(t, applied)

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_phrases_next_review_at'`,
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_phrases_next_review_at", name)
}

func TestUp_SQLiteRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openMemoryDB(t)
	_, err := migrations.Up(ctx, db, config.DriverSQLite, nil)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO phrases (id, text, status, created_at, next_review_at)
		VALUES ('a', 'x', 'Forgotten', '2025', '2025')`)
	assert.Error(t, err)
}

func TestUp_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := migrations.Up(context.Background(), openMemoryDB(t), "mysql", nil)
	assert.Error(t, err)
}

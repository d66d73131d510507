package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/phrasebook/internal/store"
	"github.com/phrazzld/phrasebook/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM phrases`).Scan(&n))
	return n
}

func insertRow(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO phrases (id, text, status, created_at, next_review_at)
		VALUES (?, 'x', 'New', '2025-01-01T00:00:00.000000000Z', '2025-01-01T00:00:00.000000000Z')`, id)
	return err
}

func TestRunInTransaction_Success(t *testing.T) {
	db := testdb.OpenSQLite(t)

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return insertRow(ctx, tx, "a")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db))
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	db := testdb.OpenSQLite(t)
	expectedErr := errors.New("function failed")

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		if err := insertRow(ctx, tx, "a"); err != nil {
			return err
		}
		return expectedErr
	})

	assert.Same(t, expectedErr, err, "fn errors are returned unchanged")
	assert.Equal(t, 0, countRows(t, db))
}

func TestRunInTransaction_Panic(t *testing.T) {
	db := testdb.OpenSQLite(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			if err := insertRow(ctx, tx, "a"); err != nil {
				return err
			}
			panic("boom")
		})
	})

	// The connection was released by the rollback and the insert is gone.
	assert.Equal(t, 0, countRows(t, db))
}

func TestRunInTransaction_BeginFailure(t *testing.T) {
	db := testdb.OpenSQLite(t)
	require.NoError(t, db.Close())

	called := false
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, store.ErrTransactionFailed)
	assert.False(t, called)
}

func TestRunInTransaction_CanceledContext(t *testing.T) {
	db := testdb.OpenSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
}

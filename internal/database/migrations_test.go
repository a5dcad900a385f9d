package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	tx := TestTx(t)
	ctx := context.Background()

	// Twice, to prove the schema statements are idempotent.
	require.NoError(t, RunMigrations(ctx, tx))
	require.NoError(t, RunMigrations(ctx, tx))

	var tableExists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`, KVTable).Scan(&tableExists)
	require.NoError(t, err)
	require.True(t, tableExists)
}

func TestTestPool_IsShared(t *testing.T) {
	require.Same(t, TestPool(t), TestPool(t))
}

func TestRunSQLiteMigrations(t *testing.T) {
	t.Parallel()

	db := TestSQLite(t)
	ctx := context.Background()

	// Second run must be a no-op.
	require.NoError(t, RunSQLiteMigrations(ctx, db))

	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_store'`,
	).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, KVTable, name)
}

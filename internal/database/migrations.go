package database

import (
	"context"
	"fmt"
)

// KVTable is the table backing the key-value store on both drivers.
const KVTable = "kv_store"

// RunMigrations creates the PostgreSQL schema.
func RunMigrations(ctx context.Context, db Conn) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitlab.com/yelinaung/spendwise/internal/store"
)

// SQLiteKV is a store.Store backed by the kv_store table in SQLite.
type SQLiteKV struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteKV)(nil)

// NewSQLiteKV creates a new SQLiteKV on a migrated database.
func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the value stored under key.
func (r *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put creates or replaces the value stored under key.
func (r *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key.
func (r *SQLiteKV) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store`); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

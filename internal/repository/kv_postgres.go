// Package repository implements the key-value store on top of the SQL
// backends.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gitlab.com/yelinaung/spendwise/internal/database"
	"gitlab.com/yelinaung/spendwise/internal/store"
)

// ErrSchemaMissing is returned when the kv_store table has not been created.
var ErrSchemaMissing = errors.New("kv_store table missing, run migrations first")

// PostgresKV is a store.Store backed by the kv_store table in PostgreSQL.
type PostgresKV struct {
	db database.Conn
}

var _ store.Store = (*PostgresKV)(nil)

// NewPostgresKV creates a new PostgresKV. db may be a pool or a transaction.
func NewPostgresKV(db database.Conn) *PostgresKV {
	return &PostgresKV{db: db}
}

// Get returns the value stored under key.
func (r *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, classify(err))
	}
	return value, nil
}

// Put creates or replaces the value stored under key.
func (r *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, classify(err))
	}
	return nil
}

// Clear deletes every key.
func (r *PostgresKV) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM kv_store`); err != nil {
		return fmt.Errorf("failed to clear store: %w", classify(err))
	}
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %w", ErrSchemaMissing, err)
	}
	return err
}

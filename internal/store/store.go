// Package store defines the key-value persistence contract and the keys
// under which engine state is saved.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store. Values are opaque byte slices.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// Versioned storage keys. A schema change gets a new key instead of
// migrating the old record in place.
const (
	KeyUser     = "spendwise_user_v1"
	KeyExpenses = "spendwise_data_v2"
	KeySubs     = "spendwise_subs_v1"
	KeyPending  = "spendwise_pending_v1"
	KeySettings = "spendwise_settings_v2"
	KeyStats    = "spendwise_stats_v1"
	KeyViceGoal = "spendwise_vice_goal_v1"
)

// Keys returns every key the engine reads and writes.
func Keys() []string {
	return []string{KeyUser, KeyExpenses, KeySubs, KeyPending, KeySettings, KeyStats, KeyViceGoal}
}

// GetJSON loads key and decodes it into v. It returns ErrNotFound unchanged
// so callers can fall back to defaults.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

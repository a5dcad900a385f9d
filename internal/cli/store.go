package cli

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/spendwise/internal/catalog"
	"gitlab.com/yelinaung/spendwise/internal/config"
	"gitlab.com/yelinaung/spendwise/internal/database"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/repository"
	"gitlab.com/yelinaung/spendwise/internal/store"
)

// openStore builds the configured backend. The returned close func releases
// its connections.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return repository.NewSQLiteKV(db), func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repository.NewPostgresKV(pool), pool.Close, nil

	case config.DriverMemory:
		return store.NewMemory(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// loadCatalog reads the reward catalog file, or the built-in one when no
// path is configured.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.RewardsCatalogPath == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.RewardsCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rewards catalog: %w", err)
	}
	return c, nil
}

// openEngine wires store, catalog and clock zone into a loaded engine.
func openEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, func(), error) {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	eng := engine.Open(ctx, store.NewTraced(st, cfg.StoreDriver),
		engine.WithCatalog(cat),
		engine.WithLocation(cfg.Location()),
	)

	logger.Log.Info().
		Str("driver", cfg.StoreDriver).
		Int("rewards", cat.Len()).
		Bool("registered", eng.Registered()).
		Msg("Engine loaded")

	return eng, closeStore, nil
}

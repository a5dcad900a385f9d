package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/spendwise/internal/config"
	"gitlab.com/yelinaung/spendwise/internal/models"
	"gitlab.com/yelinaung/spendwise/internal/store"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func useSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spendwise.db")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REWARDS_CATALOG_PATH", "")
	return path
}

func TestVersionCommand(t *testing.T) {
	build = BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-03-15"}
	t.Cleanup(func() { build = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"} })

	out := execute(t, "version")
	require.Equal(t, "spendwise 1.2.3 (commit: abc123, built: 2026-03-15)\n", out)
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		s, closeFn, err := openStore(ctx, &config.Config{StoreDriver: config.DriverMemory})
		require.NoError(t, err)
		defer closeFn()
		require.IsType(t, &store.Memory{}, s)
	})

	t.Run("sqlite persists across opens", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "kv.db")}

		s, closeFn, err := openStore(ctx, cfg)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx, store.KeyStats, []byte(`{"points":5}`)))
		closeFn()

		s, closeFn, err = openStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()
		got, err := s.Get(ctx, store.KeyStats)
		require.NoError(t, err)
		require.JSONEq(t, `{"points":5}`, string(got))
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()
		_, _, err := openStore(ctx, &config.Config{StoreDriver: "redis"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown store driver")
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		c, err := loadCatalog(&config.Config{})
		require.NoError(t, err)
		require.Positive(t, c.Len())
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rewards.toml")
		doc := `[[rewards]]
id = "treat"
name = "Treat"
description = "Something nice"
cost = 40
icon = "🍩"
category = "perk"
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		c, err := loadCatalog(&config.Config{RewardsCatalogPath: path})
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		r, ok := c.Get("treat")
		require.True(t, ok)
		require.Equal(t, int64(40), r.Cost)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadCatalog(&config.Config{RewardsCatalogPath: filepath.Join(t.TempDir(), "nope.toml")})
		require.Error(t, err)
	})
}

func TestRewardsCommand(t *testing.T) {
	useSQLite(t)

	out := execute(t, "rewards")
	require.Contains(t, out, "Balance: 0 points (level 1)")
	require.Contains(t, out, "badge_1")
	require.Contains(t, out, "Budget Sensei")
}

func TestExportCommand(t *testing.T) {
	useSQLite(t)

	ctx := context.Background()
	cfg, err := loadConfig()
	require.NoError(t, err)

	eng, closeStore, err := openEngine(ctx, cfg)
	require.NoError(t, err)
	amount := decimal.RequireFromString("12.50")
	eng.Append(ctx, models.ExpenseCandidate{Amount: &amount, Description: "Chai", Category: "Food"})
	closeStore()

	output := filepath.Join(t.TempDir(), "out.csv")
	execute(t, "export", "--output", output)
	t.Cleanup(func() { _ = exportCmd.Flags().Set("output", "") })

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "12.50", records[1][2])
	require.Equal(t, "Food", records[1][3])
	require.Equal(t, "Chai", records[1][4])
}

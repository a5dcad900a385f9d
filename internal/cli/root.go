// Package cli implements the spendwise command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/yelinaung/spendwise/internal/config"
	"gitlab.com/yelinaung/spendwise/internal/logger"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var build = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

var rootCmd = &cobra.Command{
	Use:   "spendwise",
	Short: "Personal finance ledger with savings goals and rewards",
	Long: `SpendWise tracks expenses, subscriptions and planned purchases,
turns skipped vices into savings toward a goal, and rewards good habits
with points. It runs as a Telegram bot with a small read-only HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(info BuildInfo) {
	build = info
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		logger.SetJSON()
	}
	if cfg.LogHashSalt != "" {
		if err := logger.SetHashSalt(cfg.LogHashSalt); err != nil {
			return nil, fmt.Errorf("invalid log hash salt: %w", err)
		}
	}

	return cfg, nil
}

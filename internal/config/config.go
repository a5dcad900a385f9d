// Package config provides application configuration loading from environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OTLP transport protocols.
const (
	OTLPProtocolHTTP = "http/protobuf"
	OTLPProtocolGRPC = "grpc"
)

// minHashSaltLength mirrors logger.MinHashSaltLength without importing it.
const minHashSaltLength = 32

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken   string   `env:"TELEGRAM_BOT_TOKEN"`
	RawUserIDs         []string `env:"WHITELISTED_USER_IDS" envSeparator:","`
	RawUsernames       []string `env:"WHITELISTED_USERNAMES" envSeparator:","`
	GeminiAPIKey       string   `env:"GEMINI_API_KEY"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON            bool     `env:"LOG_JSON"`
	LogHashSalt        string   `env:"LOG_HASH_SALT"`
	StoreDriver        string   `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath         string   `env:"SQLITE_PATH" envDefault:"data/spendwise.db"`
	DatabaseURL        string   `env:"DATABASE_URL"`
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsEnabled     bool     `env:"METRICS_ENABLED" envDefault:"true"`
	RewardsCatalogPath string   `env:"REWARDS_CATALOG_PATH"`
	TracingEnabled     bool     `env:"TRACING_ENABLED"`
	OTLPEndpoint       string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPProtocol       string   `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"http/protobuf"`
	Timezone           string   `env:"TIMEZONE" envDefault:"Local"`

	WhitelistedUserIDs   []int64  `env:"-"`
	WhitelistedUsernames []string `env:"-"`

	location *time.Location
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize derives typed fields from raw values. Invalid user IDs and
// empty entries from trailing commas are skipped.
func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.OTLPEndpoint = strings.TrimSpace(c.OTLPEndpoint)
	c.OTLPProtocol = strings.ToLower(strings.TrimSpace(c.OTLPProtocol))

	for _, idStr := range c.RawUserIDs {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		c.WhitelistedUserIDs = append(c.WhitelistedUserIDs, id)
	}

	for _, username := range c.RawUsernames {
		username = strings.TrimPrefix(strings.TrimSpace(username), "@")
		if username == "" {
			continue
		}
		c.WhitelistedUsernames = append(c.WhitelistedUsernames, username)
	}
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of sqlite, postgres, memory", c.StoreDriver))
	}

	if c.OTLPProtocol != OTLPProtocolHTTP && c.OTLPProtocol != OTLPProtocolGRPC {
		errs = append(errs, fmt.Errorf("OTEL_EXPORTER_OTLP_PROTOCOL %q is not one of %s, %s",
			c.OTLPProtocol, OTLPProtocolHTTP, OTLPProtocolGRPC))
	}

	if c.TelegramBotToken != "" && len(c.WhitelistedUserIDs) == 0 && len(c.WhitelistedUsernames) == 0 {
		errs = append(errs, errors.New("at least one whitelisted user (WHITELISTED_USER_IDS or WHITELISTED_USERNAMES) is required"))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is invalid", c.LogLevel))
	}

	if c.LogHashSalt != "" && len(c.LogHashSalt) < minHashSaltLength {
		errs = append(errs, fmt.Errorf("LOG_HASH_SALT must be at least %d characters", minHashSaltLength))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	c.location = loc

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// BotEnabled reports whether the Telegram surface should run.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// Location returns the zone used for calendar-day boundaries.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// IsUserWhitelisted checks if a Telegram user ID or username is in the whitelist.
// Returns true if either the user ID or username is whitelisted.
func (c *Config) IsUserWhitelisted(userID int64, username string) bool {
	if slices.Contains(c.WhitelistedUserIDs, userID) {
		return true
	}

	if username != "" {
		username = strings.TrimPrefix(username, "@")
		for _, whitelisted := range c.WhitelistedUsernames {
			if strings.EqualFold(whitelisted, username) {
				return true
			}
		}
	}

	return false
}

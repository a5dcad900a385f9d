package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func parseMap(t *testing.T, environ map[string]string) (*Config, error) {
	t.Helper()
	return parse(env.Options{Environment: environ})
}

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("WHITELISTED_USER_IDS", "123")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_HASH_SALT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "test-token-123", cfg.TelegramBotToken)
	require.Equal(t, DriverPostgres, cfg.StoreDriver)
	require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	require.Equal(t, []int64{123}, cfg.WhitelistedUserIDs)
	require.Equal(t, time.UTC, cfg.Location())
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parseMap(t, map[string]string{})
	require.NoError(t, err)

	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "data/spendwise.db", cfg.SQLitePath)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.TracingEnabled)
	require.Empty(t, cfg.OTLPEndpoint)
	require.Equal(t, OTLPProtocolHTTP, cfg.OTLPProtocol)
	require.False(t, cfg.LogJSON)
	require.Empty(t, cfg.RewardsCatalogPath)
	require.False(t, cfg.BotEnabled())
	require.Equal(t, time.Local, cfg.Location())
}

func TestParse_Whitelist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ids       string
		usernames string
		wantIDs   []int64
		wantNames []string
	}{
		{name: "comma separated IDs", ids: "123,456,789", wantIDs: []int64{123, 456, 789}},
		{name: "whitespace in IDs", ids: " 123 , 456 , 789 ", wantIDs: []int64{123, 456, 789}},
		{name: "invalid IDs are skipped", ids: "123,invalid,456", wantIDs: []int64{123, 456}},
		{name: "trailing commas", ids: "123,,456,", wantIDs: []int64{123, 456}},
		{name: "usernames drop @ prefix", usernames: "@alice, bob ,", wantNames: []string{"alice", "bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := parseMap(t, map[string]string{
				"TELEGRAM_BOT_TOKEN":    "token",
				"WHITELISTED_USER_IDS":  tt.ids,
				"WHITELISTED_USERNAMES": tt.usernames,
			})
			require.NoError(t, err)
			require.Equal(t, tt.wantIDs, cfg.WhitelistedUserIDs)
			require.Equal(t, tt.wantNames, cfg.WhitelistedUsernames)
			require.True(t, cfg.BotEnabled())
		})
	}
}

func TestParse_Settings(t *testing.T) {
	t.Parallel()

	cfg, err := parseMap(t, map[string]string{
		"STORE_DRIVER":         "Memory",
		"HTTP_ADDR":            "127.0.0.1:9000",
		"METRICS_ENABLED":      "false",
		"TRACING_ENABLED":      "true",
		"LOG_JSON":             "true",
		"LOG_HASH_SALT":        "0123456789abcdef0123456789abcdef",
		"REWARDS_CATALOG_PATH": "/etc/spendwise/rewards.toml",
		"GEMINI_API_KEY":       "key",
		"TIMEZONE":             "Asia/Kolkata",

		"OTEL_EXPORTER_OTLP_ENDPOINT": " http://collector:4318 ",
		"OTEL_EXPORTER_OTLP_PROTOCOL": "GRPC",
	})
	require.NoError(t, err)

	require.Equal(t, DriverMemory, cfg.StoreDriver)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	require.False(t, cfg.MetricsEnabled)
	require.True(t, cfg.TracingEnabled)
	require.True(t, cfg.LogJSON)
	require.Equal(t, "/etc/spendwise/rewards.toml", cfg.RewardsCatalogPath)
	require.Equal(t, "key", cfg.GeminiAPIKey)
	require.Equal(t, "Asia/Kolkata", cfg.Location().String())
	require.Equal(t, "http://collector:4318", cfg.OTLPEndpoint)
	require.Equal(t, OTLPProtocolGRPC, cfg.OTLPProtocol)
}

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
		wantErr []string
	}{
		{
			name:    "postgres needs DATABASE_URL",
			environ: map[string]string{"STORE_DRIVER": "postgres"},
			wantErr: []string{"DATABASE_URL is required"},
		},
		{
			name:    "unknown OTLP protocol",
			environ: map[string]string{"OTEL_EXPORTER_OTLP_PROTOCOL": "http/json"},
			wantErr: []string{`OTEL_EXPORTER_OTLP_PROTOCOL "http/json"`},
		},
		{
			name:    "unknown driver",
			environ: map[string]string{"STORE_DRIVER": "redis"},
			wantErr: []string{`STORE_DRIVER "redis"`},
		},
		{
			name:    "bot token without whitelist",
			environ: map[string]string{"TELEGRAM_BOT_TOKEN": "token"},
			wantErr: []string{"at least one whitelisted user"},
		},
		{
			name:    "short hash salt",
			environ: map[string]string{"LOG_HASH_SALT": "short"},
			wantErr: []string{"LOG_HASH_SALT must be at least 32"},
		},
		{
			name:    "bad level",
			environ: map[string]string{"LOG_LEVEL": "loud"},
			wantErr: []string{`LOG_LEVEL "loud"`},
		},
		{
			name:    "bad timezone",
			environ: map[string]string{"TIMEZONE": "Mars/Olympus"},
			wantErr: []string{`TIMEZONE "Mars/Olympus"`},
		},
		{
			name: "all problems are reported together",
			environ: map[string]string{
				"STORE_DRIVER":       "postgres",
				"TELEGRAM_BOT_TOKEN": "token",
				"LOG_LEVEL":          "loud",
			},
			wantErr: []string{"DATABASE_URL is required", "at least one whitelisted user", `LOG_LEVEL "loud"`},
		},
		{
			name:    "malformed bool",
			environ: map[string]string{"METRICS_ENABLED": "maybe"},
			wantErr: []string{"parse env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := parseMap(t, tt.environ)
			require.Error(t, err)
			require.Nil(t, cfg)
			for _, want := range tt.wantErr {
				require.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_IsUserWhitelisted(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		WhitelistedUserIDs:   []int64{100, 200},
		WhitelistedUsernames: []string{"alice", "bob"},
	}

	tests := []struct {
		name     string
		userID   int64
		username string
		want     bool
	}{
		{"whitelisted ID", 100, "", true},
		{"ID match with unknown username", 200, "stranger", true},
		{"whitelisted username", 999, "alice", true},
		{"username with @ prefix", 999, "@bob", true},
		{"username is case insensitive", 999, "ALICE", true},
		{"unknown user", 999, "mallory", false},
		{"zero value", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, cfg.IsUserWhitelisted(tt.userID, tt.username))
		})
	}

	require.False(t, (&Config{}).IsUserWhitelisted(100, "alice"))
}

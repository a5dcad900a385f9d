package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/yelinaung/spendwise/internal/api"
	"gitlab.com/yelinaung/spendwise/internal/bot"
	"gitlab.com/yelinaung/spendwise/internal/gemini"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and HTTP API",
	Long: `Run the HTTP API and, when TELEGRAM_BOT_TOKEN is set, the Telegram bot.
Both stop on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:  cfg.TracingEnabled,
		Version:  build.Version,
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Writer:   os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to flush traces")
		}
	}()

	eng, closeStore, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
	} else {
		logger.Log.Warn().Msg("GEMINI_API_KEY not set, receipt and voice input disabled")
	}

	server := api.NewServer(eng)
	if cfg.MetricsEnabled {
		server.EnableMetrics()
	}

	var telegramBot *bot.Bot
	if cfg.BotEnabled() {
		telegramBot, err = bot.New(cfg, eng, geminiClient)
		if err != nil {
			return err
		}
	} else {
		logger.Log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, running HTTP API only")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx, cfg.HTTPAddr)
	})

	if telegramBot != nil {
		g.Go(func() error {
			telegramBot.Start(ctx)
			return nil
		})
	}

	logger.Log.Info().Str("version", build.Version).Msg("SpendWise started")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application terminated with error: %w", err)
	}
	logger.Log.Info().Msg("Shutdown complete")
	return nil
}

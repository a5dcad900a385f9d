// Package api provides the read-only HTTP surface over the engine state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// operationName names the server spans.
const operationName = "spendwise-api"

// Server is the SpendWise HTTP API server.
type Server struct {
	engine         *engine.Engine
	metricsEnabled bool
	tracerProvider trace.TracerProvider
}

// NewServer creates a new API server.
func NewServer(eng *engine.Engine) *Server {
	return &Server{engine: eng}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted, wrapped in
// OpenTelemetry server spans. Health and metrics scrapes are not traced.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
		r.Get("/rewards", s.handleRewards)
		r.Get("/notifications", s.handleNotifications)
		r.Delete("/notifications", s.handleClearNotifications)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	tp := s.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return otelhttp.NewHandler(r, operationName,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/health" && req.URL.Path != "/metrics"
		}),
	)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info().Msg("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return <-errCh
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Summary())
}

type rewardView struct {
	models.Reward
	Affordable bool `json:"affordable"`
}

type rewardsResponse struct {
	Points  int64        `json:"points"`
	Level   int64        `json:"level"`
	Badges  []string     `json:"badges"`
	Rewards []rewardView `json:"rewards"`
}

func (s *Server) handleRewards(w http.ResponseWriter, _ *http.Request) {
	stats := s.engine.Stats()
	catalog := s.engine.Rewards()

	resp := rewardsResponse{
		Points:  stats.Points,
		Level:   stats.Level,
		Badges:  stats.Badges,
		Rewards: make([]rewardView, 0, len(catalog)),
	}
	for _, r := range catalog {
		resp.Rewards = append(resp.Rewards, rewardView{Reward: r, Affordable: stats.Points >= r.Cost})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"notifications": s.engine.Notifications()})
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, _ *http.Request) {
	s.engine.ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// requestLogger logs each request at debug level once it completes.
func requestLogger(next http.Handler) http.Handler {
	log := logger.Component("api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

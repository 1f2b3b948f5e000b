// Package api exposes the run history recorded by the reconciler over a
// small read-only HTTP API: processed entries, run summaries, and
// aggregate statistics.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ynamazon/ynamazon-go/internal/api/handlers"
	"github.com/ynamazon/ynamazon-go/internal/api/middleware"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
}

// NewServer creates a new API server over the given repository.
func NewServer(cfg Config, repo storage.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		repo:   repo,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}
	s.router.Use(middleware.CORS(corsConfig))
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		recordsHandler := handlers.NewRecordsHandler(s.repo)
		r.Get("/records", recordsHandler.List)
		r.Get("/records/{ledgerID}", recordsHandler.Get)

		runsHandler := handlers.NewRunsHandler(s.repo)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)

		statsHandler := handlers.NewStatsHandler(s.repo)
		r.Get("/stats", statsHandler.Get)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

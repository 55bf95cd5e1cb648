// Package server provides the HTTP server for the planning API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goalplate/v1/internal/infrastructure/config"
	"github.com/goalplate/v1/internal/infrastructure/http/handlers"
	"github.com/goalplate/v1/internal/infrastructure/http/middleware"
	"github.com/goalplate/v1/internal/ports/inbound"
	"github.com/goalplate/v1/pkg/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	router      *chi.Mux
	server      *http.Server
	health      *healthcheck.HealthCheck
	goalService inbound.GoalService
	planService inbound.PlanService
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	goalService inbound.GoalService,
	planService inbound.PlanService,
	health *healthcheck.HealthCheck,
) *Server {
	s := &Server{
		config:      cfg,
		logger:      logger,
		health:      health,
		goalService: goalService,
		planService: planService,
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	metrics := middleware.NewMetrics()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(metrics.Instrument())

	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Operational endpoints
	r.Get("/health", s.health.Handler())
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Use(middleware.RateLimit(s.config.RateLimit))
		s.setupAPIRoutes(r)
	})

	return r
}

// setupAPIRoutes wires the goal and plan endpoints
func (s *Server) setupAPIRoutes(r chi.Router) {
	goalHandlers := handlers.NewGoalHandlers(s.goalService, s.logger)
	planHandlers := handlers.NewPlanHandlers(s.planService, s.logger)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Route("/goals", func(r chi.Router) {
			r.Post("/", goalHandlers.AddGoal)
			r.Get("/", goalHandlers.ListGoals)
			r.Put("/priorities", goalHandlers.UpdatePriorities)
			r.Delete("/{goalID}", goalHandlers.RemoveGoal)
		})
		r.Get("/constraints", goalHandlers.GetConstraints)
		r.Post("/plans", planHandlers.GeneratePlan)
		r.Post("/ratings", planHandlers.SubmitRating)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := http2.ConfigureServer(s.server, nil); err != nil {
		return fmt.Errorf("failed to configure HTTP/2: %w", err)
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Package server provides the HTTP API server for the shipment
// lifecycle engine.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"freightworks/meridian/pkg/config"
	"freightworks/meridian/pkg/fleet"
	"freightworks/meridian/pkg/ingest"
	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/server/handlers"
	"freightworks/meridian/pkg/server/middleware"
	"freightworks/meridian/pkg/telemetry/health"
	"freightworks/meridian/pkg/telemetry/metrics"
)

// Server is the HTTP API server. It wires the lifecycle engine, the
// ingestion boundary, and the fleet aggregator behind the middleware
// chain and owns graceful shutdown.
type Server struct {
	config     *config.Config
	engine     *lifecycle.Engine
	intake     *ingest.Intake
	aggregator *fleet.Aggregator
	collector  *metrics.Collector
	checker    *health.Checker

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server. The collector and checker may be
// nil when metrics or health endpoints are disabled.
func NewServer(cfg *config.Config, engine *lifecycle.Engine, intake *ingest.Intake, aggregator *fleet.Aggregator, collector *metrics.Collector, checker *health.Checker) *Server {
	return &Server{
		config:       cfg,
		engine:       engine,
		intake:       intake,
		aggregator:   aggregator,
		collector:    collector,
		checker:      checker,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting api server", "address", s.config.Server.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("api server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	shipmentsHandler := handlers.NewShipmentsHandler(s.engine, s.intake)
	complianceHandler := handlers.NewComplianceHandler(s.engine)
	fleetHandler := handlers.NewFleetHandler(s.engine, s.aggregator)
	debugHandler := handlers.NewDebugHandler(s.engine)
	exportHandler := handlers.NewExportHandler(s.engine)

	mux.HandleFunc("GET /shipments", shipmentsHandler.List)
	mux.HandleFunc("GET /shipments/export", exportHandler.Export)
	mux.HandleFunc("GET /shipments/{id}", shipmentsHandler.Get)
	mux.HandleFunc("POST /shipments", shipmentsHandler.Create)
	mux.HandleFunc("POST /shipments/{id}/eta", shipmentsHandler.UpdateETA)
	mux.HandleFunc("POST /compliance-check/{id}", complianceHandler.Check)
	mux.HandleFunc("GET /metrics", fleetHandler.Snapshot)
	mux.HandleFunc("POST /debug/phase/arrival-release", debugHandler.ArrivalRelease)
	mux.HandleFunc("POST /debug/phase/billing-trigger", debugHandler.BillingTrigger)
	mux.HandleFunc("POST /debug/phase/billing-processed", debugHandler.BillingProcessed)

	if s.checker != nil && s.config.Telemetry.Health.Enabled {
		mux.HandleFunc("GET "+s.config.Telemetry.Health.LivenessPath, s.checker.LivenessHandler())
		mux.HandleFunc("GET "+s.config.Telemetry.Health.ReadinessPath, s.checker.ReadinessHandler())
	}

	if s.collector != nil && s.collector.Enabled() {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var handler http.Handler = mux

	if s.collector != nil {
		handler = middleware.Metrics(s.collector.HTTP())(handler)
	}

	handler = middleware.Timeout(s.config.Server.RequestTimeout)(handler)

	corsConfig := s.convertCORSConfig()
	handler = middleware.CORS(corsConfig)(handler)

	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Stop requests a shutdown from outside the serving goroutine.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// convertCORSConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) convertCORSConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        s.config.Server.CORS.Enabled,
		AllowedOrigins: s.config.Server.CORS.AllowedOrigins,
		AllowedMethods: s.config.Server.CORS.AllowedMethods,
		AllowedHeaders: s.config.Server.CORS.AllowedHeaders,
		MaxAge:         s.config.Server.CORS.MaxAge,
	}
}

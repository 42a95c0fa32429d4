// ============================================================================
// minilang - Typed Mini-Language Front End
// ============================================================================
//
// Package:     server
// Description: HTTP and WebSocket check server
// Author:      msto63
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/pkg/core/health"
	"github.com/msto63/minilang/pkg/core/logging"
	"github.com/msto63/minilang/pkg/core/version"
)

// Server is the minic check server
type Server struct {
	httpServer *http.Server
	handler    *Handler
	runner     *runner.Runner
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host          string
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	HealthTimeout time.Duration
	Version       string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          8470,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  30 * time.Second,
		HealthTimeout: 5 * time.Second,
		Version:       version.Platform,
	}
}

// New creates a new check server around r
func New(cfg Config, r *runner.Runner, logger *logging.Logger) (*Server, error) {
	if r == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if logger == nil {
		logger = logging.New("minic-server")
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = version.Platform
	}

	h := NewHandler(r, logger)
	wsHandler := NewWebSocketHandler(r, logger)

	healthRegistry := health.NewRegistry("minic", cfg.Version)
	healthRegistry.RegisterFunc("frontend", func(ctx context.Context) health.CheckResult {
		if _, err := r.Engine().Check("probe: integer;"); err != nil {
			return health.CheckResult{
				Name:    "frontend",
				Status:  health.StatusUnhealthy,
				Message: err.Error(),
			}
		}
		details := map[string]interface{}{
			"max_input_length": r.Engine().MaxInputLength(),
		}
		if c := r.Cache(); c != nil {
			hits, misses, hitRate := c.Stats()
			details["cache_size"] = c.Size()
			details["cache_hits"] = hits
			details["cache_misses"] = misses
			details["cache_hit_rate"] = hitRate
		}
		return health.CheckResult{
			Name:    "frontend",
			Status:  health.StatusHealthy,
			Message: "front end accepts probe program",
			Details: details,
		}
	})
	if store := r.History(); store != nil {
		healthRegistry.Register(health.PingCheck("history", store.Ping))
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/check/ws", wsHandler)
	mux.Handle("/health", healthRegistry.Handler(cfg.HealthTimeout))
	mux.Handle("/", h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    h,
		runner:     r,
		health:     healthRegistry,
		logger:     logger,
		config:     cfg,
	}, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Handler returns the root HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting minic check server",
		"host", s.config.Host,
		"port", s.config.Port,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	s.logger.Info("Starting minic check server (async)",
		"host", s.config.Host,
		"port", s.config.Port,
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping minic check server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

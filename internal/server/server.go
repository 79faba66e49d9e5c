// HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8090",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server wraps the HTTP server.
type Server struct {
	config Config
	http   *http.Server
	log    *zap.Logger
}

// NewServer creates a new HTTP server for the given handler.
// The caller owns everything behind the handler (database, watchers,
// consumers); the server only manages the listener lifecycle.
func NewServer(handler http.Handler, config Config, log *zap.Logger) *Server {
	httpServer := &http.Server{
		Addr:         config.Addr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config: config,
		http:   httpServer,
		log:    log,
	}
}

// Start starts the HTTP server and blocks until it stops.
// A graceful Shutdown is not an error to the caller.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting http server", zap.String("addr", s.http.Addr))

	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("http server shutdown complete")
	return nil
}

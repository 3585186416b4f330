package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/turtacn/MolParse/pkg/errors"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
)

// ServerConfig tunes the HTTP listener.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server owns the http.Server lifecycle around a gin engine.
type Server struct {
	srv             *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewServer wraps handler in an http.Server with the configured timeouts.
func NewServer(handler http.Handler, cfg ServerConfig, logger logging.Logger) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start blocks serving requests until the listener closes. A graceful
// shutdown via Stop returns nil, any other listener failure is wrapped.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "http server failed")
	}
	return nil
}

// Stop drains in-flight requests, waiting up to the shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	if s.logger != nil {
		s.logger.Info("http server shutting down")
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "http server shutdown")
	}
	return nil
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

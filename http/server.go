// Package http exposes the prediction pipeline over JSON and websocket.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"scorecast/ml"
)

// Server owns the HTTP listener for one Predictor.
type Server struct {
	server  *http.Server
	handler http.Handler
	config  ServerConfig
	logger  *zap.Logger
}

// ServerConfig carries the listener and middleware settings.
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	MaxBodyBytes   int64
	CacheSize      int
	AllowedOrigins []string
}

// DefaultServerConfig listens on :8080 and accepts any origin.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		MaxBodyBytes:   64 << 10,
		CacheSize:      1024,
		AllowedOrigins: []string{"*"},
	}
}

// NewServer registers the JSON and websocket routes behind the middleware
// stack. Zero Timeout or MaxBodyBytes fall back to the defaults.
func NewServer(config ServerConfig, predictor *ml.Predictor, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultServerConfig().MaxBodyBytes
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultServerConfig().Timeout
	}
	api, err := NewAPI(predictor, config.CacheSize, logger.Named("api"))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	api.Register(mux)
	NewLiveForm(api, config.AllowedOrigins, config.Timeout).Register(mux)

	handler := middlewareStack(config, logger)(mux)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      handler,
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		handler: handler,
		config:  config,
		logger:  logger,
	}, nil
}

// middlewareStack wraps the routes. The access logger sits outside recovery so
// a recovered panic carries the request ID and is logged with status 500.
func middlewareStack(config ServerConfig, logger *zap.Logger) Middleware {
	return Chain(
		LoggerMiddleware(logger.Named("access")),
		RecoveryMiddleware(logger),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		RequestSizeMiddleware(config.MaxBodyBytes),
		TimeoutMiddleware(config.Timeout),
	)
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks serving until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting http server",
		zap.String("addr", s.server.Addr),
		zap.String("websocket", "/api/ws/predict"),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

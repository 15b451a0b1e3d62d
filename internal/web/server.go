// Package web serves the prediction form over HTTP.
//
// Each WebSocket connection owns its own form session; the classifier behind
// the predictor is loaded once and shared read-only.
package web

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/petal/internal/form"
)

// Config configures the HTTP server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// TLS serves HTTPS when set.
	TLS *tls.Config
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8501",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server hosts the form page, the JSON API and the session socket.
type Server struct {
	server  *http.Server
	handler http.Handler
}

// NewServer wires the routes and middleware around predictor.
func NewServer(cfg Config, predictor form.Predictor) (*Server, error) {
	h, err := NewHandler(predictor)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /api/predict", h.Predict)
	mux.HandleFunc("GET /ws", h.Session)
	mux.Handle("GET /assets/", h.Assets())

	chain := Chain(
		RecoveryMiddleware,
		LoggerMiddleware,
	)
	handler := chain(mux)

	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			TLSConfig:    cfg.TLS,
		},
	}, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// URL returns the address clients should open.
func (s *Server) URL() string {
	scheme := "http"
	if s.server.TLSConfig != nil {
		scheme = "https"
	}
	return scheme + "://" + s.server.Addr
}

// Start listens until Stop is called.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.server.Addr, "tls", s.server.TLSConfig != nil)

	var err error
	if s.server.TLSConfig != nil {
		err = s.server.ListenAndServeTLS("", "")
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

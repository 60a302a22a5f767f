// Package api serves the device registry over HTTP.
//
// Routes live under {base}/braket-devices/. Every response body is a JSON
// envelope with a "status" of "success" or "error"; error envelopes carry
// the error kind in "type" and an HTTP status derived from it.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/metrics"
)

// RoutePrefix is the path segment all device routes are mounted under.
const RoutePrefix = "braket-devices"

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	shutdownTimeout     = 5 * time.Second
)

// CORSConfig controls the CORS headers set on every response.
type CORSConfig struct {
	AllowedOrigins []string
}

// Server is the HTTP front end of a Registry.
type Server struct {
	registry braket.Registry
	catalog  *catalog.Catalog
	logger   *log.Logger
	metrics  *metrics.Collector
	cors     CORSConfig
	base     string
	router   *mux.Router
}

// NewServer creates a server for registry. The catalog is served by the
// catalog route; nil means the built-in seed.
func NewServer(registry braket.Registry, options ...func(*Server)) *Server {
	s := &Server{
		registry: registry,
		logger:   log.Nop(),
		router:   mux.NewRouter(),
	}
	for _, o := range options {
		o(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Seed()
	}
	s.setupRoutes()
	return s
}

// WithBasePath mounts the device routes under base (e.g. "/api").
func WithBasePath(base string) func(*Server) {
	return func(s *Server) {
		s.base = strings.TrimRight(base, "/")
	}
}

// WithCatalog sets the catalog served by the catalog route.
func WithCatalog(c *catalog.Catalog) func(*Server) {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) func(*Server) {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the collector for request counters. The collector's
// snapshot is served by the metrics route.
func WithMetrics(m *metrics.Collector) func(*Server) {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithCORS sets the allowed origins. No origins means "*".
func WithCORS(c CORSConfig) func(*Server) {
	return func(s *Server) {
		s.cors = c
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware, s.loggingMiddleware, s.corsMiddleware)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	devices := s.router.PathPrefix(s.base + "/" + RoutePrefix).Subrouter()
	devices.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet, http.MethodOptions)
	devices.HandleFunc("/devices/view", s.handleView).Methods(http.MethodGet, http.MethodOptions)
	devices.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet, http.MethodOptions)
	devices.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet, http.MethodOptions)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// DevicesPath returns the path of the devices route.
func (s *Server) DevicesPath() string {
	return s.base + "/" + RoutePrefix + "/devices"
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", map[string]any{"addr": addr, "devices_path": s.DevicesPath()})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

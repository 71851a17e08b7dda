// Package server exposes the pedigree pipeline over HTTP.
//
// # Routes
//
//	GET    /families                  family ids in the data directory
//	GET    /family/{id}               the dataset as stored
//	GET    /family/{id}/layout        the chart display model (JSON)
//	GET    /family/{id}/chart.svg     the rendered chart
//	GET    /family/{id}/diagnostics   layout diagnostics
//	GET    /annotations/{id}          saved positions
//	POST   /annotations/{id}          save positions
//	DELETE /annotations/{id}          forget saved positions
//	GET    /config                    effective configuration
//	GET    /metrics                   Prometheus metrics (when enabled)
//	GET    /healthz                   liveness
//
// Layout routes accept the query parameters max_depth, strict and
// skip_separation; chart routes also accept labels and engine
// ("svg" or "graphviz"). Errors are JSON objects with "code" and "error".
//
// Every request loads the dataset fresh, so each request owns its layout
// pass.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/pipeline"
)

// Server serves one data directory through a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	cfg     config.Config
	log     *log.Logger
	metrics http.Handler
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.log = l } }

// New creates a server. The runner's annotation store backs the
// /annotations routes.
func New(runner *pipeline.Runner, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		cfg:    cfg,
		log:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/config", s.handleConfig)
	r.Get("/families", s.handleFamilies)

	r.Route("/family/{id}", func(r chi.Router) {
		r.Get("/", s.handleFamily)
		r.Get("/layout", s.handleLayout)
		r.Get("/chart.svg", s.handleChartSVG)
		r.Get("/diagnostics", s.handleDiagnostics)
	})

	r.Route("/annotations/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetAnnotations)
		r.Post("/", s.handleSaveAnnotations)
		r.Delete("/", s.handleDeleteAnnotations)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

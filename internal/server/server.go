// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz       build information
//	POST /v1/columns    column grid with header bands
//	POST /v1/layout     snapshot of a dataset
//	POST /v1/position   position of a date
//	POST /v1/date       date at a position
//
// Every request may carry a partial "view" object; fields it leaves out
// fall back to the server's configured view.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	view   config.View
	logger *log.Logger
	router chi.Router
}

// New creates a server. view holds the defaults requests override.
func New(runner *pipeline.Runner, view config.View, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, view: view, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody)
		r.Post("/columns", s.postColumns)
		r.Post("/layout", s.postLayout)
		r.Post("/position", s.postPosition)
		r.Post("/date", s.postDate)
	})
	return r
}

// Run listens on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.Server) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Package web provides the HTTP API of the database.
//
// EDUCATIONAL NOTES:
// ------------------
// This package sets up an HTTP server using the chi router, which is a
// lightweight, idiomatic Go router. Key concepts:
//
// 1. Middleware: Functions that wrap handlers to add cross-cutting concerns
//    like logging, metrics, rate limiting and recovery from panics.
//
// 2. Graceful shutdown: When the context passed to Run is cancelled, the
//    server stops accepting new connections but finishes processing
//    in-flight requests before returning.
//
// 3. Content negotiation: every API response is JSON unless the client
//    asks for MessagePack with "Accept: application/msgpack".

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cabewaldrop/lightoladb/internal/config"
	"github.com/cabewaldrop/lightoladb/internal/database"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server of the database.
type Server struct {
	router *chi.Mux
	cfg    config.ServerConfig
	db     *database.Database
	log    logrus.FieldLogger
}

// NewServer creates a new HTTP server. If db is nil, the /api routes answer
// 503 Service Unavailable.
func NewServer(cfg config.ServerConfig, db *database.Database, log logrus.FieldLogger) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// RequestID: Adds a unique ID to each request for tracing
	r.Use(middleware.RequestID)
	// RealIP: Extracts the real client IP from X-Forwarded-For headers
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(Metrics)
	// Recoverer: Catches panics in handlers, logs stack trace, returns 500
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	s := &Server{
		router: r,
		cfg:    cfg,
		db:     db,
		log:    log,
	}

	s.routes()
	return s
}

// routes sets up all HTTP routes for the server.
func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(RateLimit(s.cfg.RateLimit, s.cfg.RateBurst))
		}
		r.Use(WithDatabase(s.db))
		r.Use(RequireDatabase)

		r.Get("/tables", handleAPITables)
		r.Get("/tables/{name}", handleAPITableSchema)
		r.Post("/query", handleAPIQuery)
	})
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutdown requested, draining connections")
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

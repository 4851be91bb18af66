// Package server exposes report building and the report store over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/runnerr0/pulse/internal/config"
	"github.com/runnerr0/pulse/internal/logging"
	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/storage"
)

// Server is the HTTP surface of pulse.
type Server struct {
	router          *chi.Mux
	httpServer      *http.Server
	cfg             config.ServerConfig
	defaultPlatform string
	version         string
	builder         *report.Builder
	store           storage.Store
	metrics         *Metrics
	logger          logging.Logger
}

// Options carries the collaborators of a Server. Store may be nil, in which
// case saving and the report endpoints answer 503.
type Options struct {
	Config  *config.Config
	Version string
	Builder *report.Builder
	Store   storage.Store
	Logger  logging.Logger
}

// New creates a server with its routes and middleware installed.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	builder := opts.Builder
	if builder == nil {
		builder = report.NewBuilder(cfg.Report.MaxPosts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		router:          chi.NewRouter(),
		cfg:             cfg.Server,
		defaultPlatform: cfg.Report.Platform,
		version:         opts.Version,
		builder:         builder,
		store:           opts.Store,
		metrics:         NewMetrics(),
		logger:          logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.Middleware)
	if cfg.Server.RequestTimeoutSeconds > 0 {
		s.router.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second))
	}

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/analyze", s.handleAnalyze)
			r.Get("/reports", s.handleListReports)
			r.Get("/reports/{id}", s.handleGetReport)
			r.Get("/search", s.handleSearch)
		})
	})

	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logging.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Debug("HTTP request")
	})
}

// Package api exposes the recruitment workflow over HTTP: recruiter
// operations under /api, the public careers read path, health and
// Prometheus metrics endpoints.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hireloop/hireloop/internal/logging"
	"github.com/hireloop/hireloop/internal/workflow"
)

// Server holds the handlers' shared dependencies.
type Server struct {
	engine *workflow.Engine
	cfg    workflow.Config
	logger *slog.Logger

	// backgroundTimeout bounds detached graph runs kicked off by
	// approval handlers.
	backgroundTimeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request and background-run logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates the API server around a workflow engine.
func NewServer(engine *workflow.Engine, cfg workflow.Config, opts ...ServerOption) *Server {
	s := &Server{
		engine:            engine,
		cfg:               cfg,
		logger:            logging.NewNop(),
		backgroundTimeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route tree. A nil gatherer disables the /metrics
// endpoint.
func (s *Server) Handler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/jobs", func(r chi.Router) {
		r.Post("/", s.createJob)
		r.Get("/", s.listJobs)

		r.Route("/{jobID}", func(r chi.Router) {
			r.Get("/status", s.getStatus)
			r.Get("/jd", s.getJD)
			r.Put("/jd", s.updateJD)
			r.Post("/jd/approve", s.approveJD)
			r.Post("/jd/regenerate", s.regenerateJD)
			r.Post("/applicants", s.addApplicant)
			r.Post("/applicants/mock", s.addMockApplicants)
			r.Post("/check-applications", s.checkApplications)
			r.Post("/shortlist/approve", s.approveShortlist)
			r.Post("/decision", s.recordDecision)
		})
	})

	r.Get("/careers/{jobID}", s.careersPage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

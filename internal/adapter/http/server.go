package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/water-safety-service/internal/domain"
	"github.com/couchcryptid/water-safety-service/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// writeMargin is the time a request may spend outside the oracle call:
// body decoding, the provider lookup, rule evaluation, and the response write.
const writeMargin = 20 * time.Second

// minWriteTimeout is the write deadline for short oracle budgets.
const minWriteTimeout = 30 * time.Second

// Assessor produces a verdict for a water record.
type Assessor interface {
	Assess(ctx context.Context, rec domain.WaterRecord) domain.Verdict
	Standards() domain.Standards
}

// Server exposes the assessment API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	provider   domain.WaterDataProvider
	assessor   Assessor
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the API, /healthz, /readyz, and /metrics routes.
// The write deadline is derived from oracleTimeout so a hanging oracle always
// yields the fallback verdict before the connection is cut.
func NewServer(
	addr string,
	provider domain.WaterDataProvider,
	assessor Assessor,
	ready sharedobs.ReadinessChecker,
	allowedOrigins []string,
	oracleTimeout time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout(oracleTimeout),
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		assessor: assessor,
		logger:   logger,
		metrics:  metrics,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/check-water-safety", s.handleCheckWaterSafety)
		r.Get("/standards", s.handleStandards)
	})

	return s
}

func writeTimeout(oracleTimeout time.Duration) time.Duration {
	return max(oracleTimeout+writeMargin, minWriteTimeout)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

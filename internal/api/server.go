// Package api provides the HTTP API server and the HTML dashboard for the
// bestseller analytics service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/bestsellers/internal/ratelimit"
)

// Options configures the HTTP layer.
type Options struct {
	AllowedOrigins []string

	// Limiter throttles requests per client IP. Nil disables rate limiting.
	Limiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	opts     Options
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		services: services,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Bestseller Analytics API", "1.0.0")
	humaConfig.Info.Description = "Filters and aggregations over the Amazon top-50 bestseller list, 2009-2019."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if s.opts.Limiter != nil {
		s.router.Use(RateLimitMiddleware(s.opts.Limiter, s.logger))
	}

	s.router.Use(middleware.Compress(5))
}

// setupRoutes registers the huma operations and the HTML pages.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerDatasetRoutes()
	s.registerAnalyticsRoutes()
	s.registerSearchRoutes()

	s.router.Get("/", s.handleDashboard)
	s.router.Get("/report.md", s.handleReportMarkdown)
}

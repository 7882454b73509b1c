// Package api provides the HTTP API server and handlers for the dojolog application.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dojolog/dojolog-server/internal/http/response"
	"github.com/dojolog/dojolog-server/internal/ratelimit"
)

// HealthCheck probes one backing component for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Options configures the HTTP surface.
type Options struct {
	// CORSOrigins lists browser origins allowed to call the API with credentials.
	CORSOrigins []string
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	// AuthRateLimit is the number of auth attempts allowed per client IP per minute. Zero disables limiting.
	AuthRateLimit int
	HealthChecks  []HealthCheck
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services      *Services
	router        *chi.Mux
	api           huma.API
	logger        *slog.Logger
	authLimiter   *ratelimit.KeyedRateLimiter
	secureCookies bool
	healthChecks  []HealthCheck
}

// NewServer creates a new HTTP server with all routes configured.
// Call Close to release the rate limiter.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services:      services,
		router:        chi.NewRouter(),
		logger:        logger,
		secureCookies: opts.SecureCookies,
		healthChecks:  opts.HealthChecks,
	}

	if opts.AuthRateLimit > 0 {
		s.authLimiter = ratelimit.New(ratelimit.PerInterval(opts.AuthRateLimit, ratelimitWindow), opts.AuthRateLimit)
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("dojolog API", "1.0.0")
	humaConfig.Info.Description = "Track the kata, bunkai, kumite and weapon forms you have learned at each rank."
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

// API returns the huma API, for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.authLimiter != nil {
		s.authLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	if opts.AccessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if s.services != nil && s.services.Auth != nil {
		s.router.Use(sessionMiddleware(s.services.Auth))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", s.logger)
	})
}

// setupRoutes registers every huma operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerFormRoutes()
	s.registerCatalogRoutes()
}

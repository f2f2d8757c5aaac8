package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr     string
	registry *prometheus.Registry
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMetricsRegistry exposes the registry at /metrics
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	releaseUC interfaces.ReleaseNotesUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:4200",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	if cfg.registry != nil {
		router.Get("/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	// Release notes endpoints. The static /force prefix takes precedence
	// over the org/repo wildcards.
	releaseHandler := NewReleaseHandler(releaseUC)
	router.Get("/force/{org}/{repo}", releaseHandler.ForceRefresh)
	router.Get("/{org}/{repo}", releaseHandler.GetReleaseNotes)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}

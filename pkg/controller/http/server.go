package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr           string
	uploadMaxBytes int64
	rateLimitRPS   float64
	rateLimitBurst int
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithUploadMaxBytes sets the maximum size of an uploaded workbook or JSON batch
func WithUploadMaxBytes(n int64) Option {
	return func(c *config) {
		c.uploadMaxBytes = n
	}
}

// WithRateLimit sets the per-client rate limit of lookup endpoints. A zero or
// negative rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.rateLimitRPS = rps
		c.rateLimitBurst = burst
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	lookupUC interfaces.LookupUseCase,
	batchUC interfaces.BatchUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:           "localhost:8080",
		uploadMaxBytes: 10 << 20,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	handler, err := NewHandler(lookupUC, batchUC, cfg.uploadMaxBytes)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Form UI and static downloads
	router.Get("/", handler.Index)
	router.Get("/template.xlsx", handler.Template)

	// Endpoints calling the address API. Form posts get the page back with a
	// warning when limited, the others get a JSON error.
	limiter := newRateLimiter(ctx, cfg.rateLimitRPS, cfg.rateLimitBurst)
	router.With(limiter.limit(handler.LookupRateLimited)).Post("/lookup", handler.Lookup)
	router.With(limiter.limit(handler.BatchRateLimited)).Post("/batch", handler.Batch)

	limited := router.With(limiter.limit(rejectJSON))
	limited.Post("/lookup.xlsx", handler.LookupExport)
	limited.Post("/batch.xlsx", handler.BatchExport)
	limited.Get("/api/cep/{cep}", handler.APILookup)
	limited.Post("/api/batch", handler.APIBatch)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}

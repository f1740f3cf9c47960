package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/spherical/pdf-converter/internal/observability"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	RequestTimeout    time.Duration
	CORSOrigins       []string
	RequestsPerMinute int // 0 disables rate limiting of /convert
}

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(logger *observability.Logger, h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", h.Health)
	r.Get("/", h.Index)

	convert := r.With()
	if cfg.RequestsPerMinute > 0 {
		convert = r.With(httprate.LimitByIP(cfg.RequestsPerMinute, time.Minute))
	}
	convert.Post("/convert", h.Convert)

	return r
}

// Package httpapi assembles the API router: global middleware, the service
// level routes, and the feature handlers.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stellariq/internal/platform/metrics"
	"stellariq/internal/platform/middleware"
	"stellariq/pkg/platform/httputil"
	"stellariq/pkg/requestcontext"
)

const apiVersion = "1.0.0"

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config carries everything the router needs. Metrics and Gatherer may be nil,
// in which case latency is not recorded and /metrics is not served.
type Config struct {
	Logger         *slog.Logger
	Environment    string
	ExposeErrors   bool
	RequestTimeout time.Duration
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Handlers       []Registrar
}

// NewRouter builds the root handler.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger, cfg.ExposeErrors))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Get("/", handleWelcome)
		r.Get("/api/health", handleHealth(cfg.Environment))
		for _, h := range cfg.Handlers {
			h.Register(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteFailure(w, http.StatusNotFound, "Route "+r.URL.RequestURI()+" not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteFailure(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

func handleWelcome(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Welcome to StellarIQ API",
		"version": apiVersion,
		"endpoints": map[string]string{
			"auth":    "/api/auth",
			"users":   "/api/users",
			"careers": "/api/careers",
			"skills":  "/api/skills",
			"pivot":   "/api/pivot",
			"ai":      "/api/ai",
			"health":  "/api/health",
		},
	})
}

func handleHealth(environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteSuccess(w, http.StatusOK, "StellarIQ API is running", map[string]string{
			"timestamp":   requestcontext.Now(r.Context()).UTC().Format(time.RFC3339),
			"environment": environment,
		})
	}
}

// Package httptransport assembles the public HTTP surface: shared
// middleware, the API index, health checks and every feature module.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"huduma/internal/platform/metrics"
	"huduma/pkg/platform/httputil"
	request "huduma/pkg/platform/middleware/request"
	"huduma/pkg/platform/middleware/requesttime"
)

// Module is a feature handler that registers its routes under /api.
type Module interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Timeout time.Duration
	Checks  map[string]HealthCheck
	Modules []Module
}

const defaultTimeout = 30 * time.Second

// NewRouter wires middleware and mounts every module under /api. Trailing
// slashes are stripped so /api/requests/ and /api/requests are the same route.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Timeout))
	r.Use(chimw.StripSlashes)
	r.Use(cfg.Metrics.Middleware)

	health := healthHandler(cfg.Checks, cfg.Logger)
	r.Get("/healthz", health)
	r.Route("/api", func(api chi.Router) {
		api.Get("/", indexHandler)
		api.Get("/health", health)
		for _, m := range cfg.Modules {
			m.Register(api)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				failed[name] = "unavailable"
			}
		}
		if len(failed) > 0 {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Checks: failed})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

var indexLinks = map[string]string{
	"health":           "api/health/",
	"healthz":          "healthz/",
	"auth_register":    "api/auth/register/",
	"auth_login":       "api/auth/login/",
	"auth_refresh":     "api/auth/refresh/",
	"me":               "api/me/",
	"requests":         "api/requests/",
	"pending_requests": "api/requests/pending/",
}

// indexHandler lists entry points as absolute URLs built from the request
// host.
func indexHandler(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	base := scheme + "://" + r.Host + "/"
	out := make(map[string]string, len(indexLinks))
	for name, path := range indexLinks {
		out[name] = base + path
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

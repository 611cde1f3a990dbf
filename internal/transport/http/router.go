// Package httptransport assembles the process HTTP surface: platform
// middleware, operational endpoints and the module routers under /api.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drainadopt/pkg/platform/httputil"
	"drainadopt/pkg/platform/middleware/metadata"
	request "drainadopt/pkg/platform/middleware/request"
	"drainadopt/pkg/platform/middleware/requesttime"
)

// APIPrefix is where module routes are mounted.
const APIPrefix = "/api"

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig lists what NewRouter mounts. APIMiddleware runs on every /api
// request after the timeout. JSON handlers sit behind the JSON content-type
// guard; Raw handlers (uploads) do not.
type RouterConfig struct {
	Logger         *slog.Logger
	Latency        request.LatencyObserver
	RequestTimeout time.Duration
	TrustedProxies metadata.TrustedProxies
	HealthChecks   map[string]HealthCheck
	APIMiddleware  []func(http.Handler) http.Handler
	JSON           []Registrar
	Raw            []Registrar
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter wires the platform middleware chain and mounts every handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata(cfg.TrustedProxies))
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	if cfg.Latency != nil {
		r.Use(request.Latency(cfg.Latency))
	}

	r.Get("/health", healthHandler(cfg.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(request.Timeout(cfg.RequestTimeout))
		}
		for _, mw := range cfg.APIMiddleware {
			r.Use(mw)
		}
		r.Group(func(r chi.Router) {
			r.Use(request.ContentTypeJSON)
			for _, h := range cfg.JSON {
				h.Register(r)
			}
		})
		r.Group(func(r chi.Router) {
			for _, h := range cfg.Raw {
				h.Register(r)
			}
		})
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok"}
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

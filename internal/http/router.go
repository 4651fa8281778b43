// Package httpapi assembles the service's HTTP surface: the check endpoint,
// health, and metrics.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"steamgate/internal/gate/handler"
	"steamgate/internal/platform/middleware"
	"steamgate/pkg/platform/httputil"
)

// HealthCheck reports whether a backing dependency is reachable. A nil
// check is treated as always healthy.
type HealthCheck func(ctx context.Context) error

// NewRouter wires all endpoints behind the shared middleware stack.
func NewRouter(gate *handler.Handler, health HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	gate.Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

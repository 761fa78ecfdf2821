// Package httpapi assembles the router. Handlers stay thin; business rules
// live in the services they delegate to.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apphandler "homeward/internal/application/handler"
	pethandler "homeward/internal/pet/handler"
	"homeward/internal/platform/metrics"
	authmw "homeward/pkg/platform/middleware/auth"
	"homeward/pkg/platform/middleware/metadata"
	"homeward/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    authmw.JWTValidator
	Pets         *pethandler.Handler
	Applications *apphandler.Handler

	// HealthChecks are pinged by /healthz; a failing check turns the
	// response into a 503.
	HealthChecks map[string]func(context.Context) error
}

// NewRouter wires middleware and endpoints. Everything except /healthz and
// /metrics sits behind JWT auth.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.Middleware)
	r.Use(requesttime.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(d.HealthChecks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.Validator, d.Logger))
		d.Pets.Register(r)
		d.Applications.Register(r)
	})

	return r
}

func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := "ok"
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body = name + " unavailable"
				break
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each dependency check in /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.metrics.middleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Handle("/metrics", s.metrics.Handler())

	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/events", s.handleListEvents)

		r.Route("/targets", func(r chi.Router) {
			r.Get("/", s.handleListTargets)

			r.Route("/{variant}", func(r chi.Router) {
				r.Get("/", s.handleGetTarget)
				r.Get("/sdk", s.handleGetSdk)
				r.Post("/requirements", s.handleCheckRequirements)
				r.Get("/features/{feature}", s.handleGetFeature)

				r.Route("/devices", func(r chi.Router) {
					r.Get("/", s.handleListDevices)
					r.Post("/", s.handleAddDevice)
					r.Get("/default", s.handleGetDefaultDevice)
					r.Get("/{name}", s.handleGetDevice)
					r.Put("/{name}/credentials", s.handleSetCredentials)
				})

				r.Get("/settings", s.handleGetSettings)
				r.Put("/settings", s.handleSaveSettings)

				r.Route("/formats", func(r chi.Router) {
					r.Get("/shader", s.handleShaderFormats)
					r.Get("/reflection", s.handleReflectionFormats)
					r.Get("/texture", s.handleAllTextureFormats)
					r.Post("/texture/resolve", s.handleResolveTextureFormats)
					r.Get("/wave", s.handleAllWaveFormats)
					r.Post("/wave/resolve", s.handleResolveWaveFormat)
				})
			})
		})
	})

	return r
}

// handleHealth reports the server version and the state of each
// dependency. Any failing dependency turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	code := http.StatusOK
	deps := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.checks[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			deps[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":       status,
		"version":      s.version,
		"dependencies": deps,
	})
}

// Package api exposes audits and dashboards over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AI-Template-SDK/senso-visibility/internal/config"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

// NewRouter wires the public routes. inngestHandler may be nil when no
// workflow client is configured.
func NewRouter(cfg *config.Config, analysisService services.AnalysisService, dashboardService services.DashboardService, inngestHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(analysisService, dashboardService)

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Root endpoint for ALB health check
	r.Get("/", handler.Status)
	r.Get("/health", handler.HealthCheck)

	if inngestHandler != nil {
		r.Handle("/api/inngest", inngestHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.APIToken))
		r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))

		r.Post("/score", handler.ScoreResponses)
		r.Post("/audits", handler.CreateAudit)
		r.Get("/audits/{id}", handler.GetAudit)

		r.Route("/clients/{clientID}", func(r chi.Router) {
			r.Get("/dashboard", handler.GetDashboard)
			r.Get("/citations", handler.GetCitations)
		})
	})

	return r
}

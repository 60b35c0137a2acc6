package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/procurement-portal/internal/transport/middleware"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Routes carries the handlers mounted by RegisterAllRoutes. Metrics is optional.
type Routes struct {
	Portal      *PortalHandler
	Health      *HealthHandler
	Metrics     http.Handler
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if routes.Metrics != nil && routes.MetricsPath != "" {
		router.Method(http.MethodGet, routes.MetricsPath, routes.Metrics)
	}

	router.Get("/", routes.Portal.Page)
	router.Get("/page", routes.Portal.Page)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", routes.Health.healthCheckHandler)
		r.Get("/ping", routes.Health.pingHandler)

		r.Get("/route", routes.Portal.Route)
		r.Post("/commands/{name}", routes.Portal.Command)
		r.Get("/document", routes.Portal.Document)
	})
}

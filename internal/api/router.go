package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zackdotcomputer/capital-gains/internal/api/handlers"
	custommiddleware "github.com/zackdotcomputer/capital-gains/internal/api/middleware"
	"github.com/zackdotcomputer/capital-gains/internal/config"
	"github.com/zackdotcomputer/capital-gains/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, statementService *service.StatementService, gainsService *service.GainsService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/statement", func(r chi.Router) {
			statementHandler := handlers.NewStatementHandler(statementService)
			gainsHandler := handlers.NewGainsHandler(gainsService)

			r.Get("/", statementHandler.ListStatements)
			r.Post("/digest", statementHandler.Digest)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", statementHandler.GetStatement)
				r.Delete("/", statementHandler.DeleteStatement)
				r.Get("/gains", gainsHandler.Gains)
			})
		})
	})

	return r
}

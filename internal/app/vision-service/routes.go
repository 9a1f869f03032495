// Package visionservice предоставляет маршруты для основного приложения.
package visionservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/ai-vision-service/internal/config"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/handlers/vision/analyze"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/handlers/vision/health"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/handlers/vision/usage"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-vision-service/internal/services/analysis"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, analysisService *analysis.Service, verifier middlewarectx.TokenVerifier) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/python-api", func(r chi.Router) {
		// Открытая конечная точка
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с проверкой bearer-токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(verifier, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))
			r.Post("/analyze", analyze.New(logger, analysisService).ServeHTTP)
			r.Get("/usage", usage.New(logger, analysisService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/api/handlers"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/api/middleware"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services, cfg *config.Config, logger *logrus.Logger) {
	app.Get("/", handlers.Root())

	api := app.Group("/api")

	// Only the summarization endpoints reach the model on every call
	limit := middleware.SummaryRateLimit(middleware.RateLimitConfig{
		Max:        cfg.Server.RateLimit.Max,
		Expiration: cfg.Server.RateLimit.Expiration,
	})

	summaryHandler := handlers.NewSummaryHandler(svc.Summary, logger)
	api.Post("/start-session", limit, summaryHandler.StartSession)
	api.Post("/summarize", limit, summaryHandler.Summarize)

	// Session management
	api.Get("/sessions", handlers.GetSessions(svc))
	api.Post("/cleanup-sessions", handlers.CleanupSessions(svc))

	// Diagnostics
	api.Get("/health", handlers.Health(svc))
	api.Get("/test-gemini", handlers.TestGemini(svc, logger))
	api.Get("/metrics", handlers.Metrics(svc))

	app.Use(handlers.NotFound())
}

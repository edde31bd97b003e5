package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

// Endpoints is the public route list shown by the banner and 404 responses.
var Endpoints = []string{
	"GET /",
	"GET /api/health",
	"POST /api/start-session",
	"POST /api/summarize",
	"GET /api/test-gemini",
	"GET /api/sessions",
	"POST /api/cleanup-sessions",
	"GET /api/metrics",
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Root returns the service banner
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Meeting Summarizer API",
			"status":    "running",
			"timestamp": timestamp(),
			"endpoints": Endpoints,
		})
	}
}

// Health reports liveness and whether the upstream credential is set
func Health(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":            "OK",
			"timestamp":         timestamp(),
			"gemini_configured": svc.Summary.Configured(),
			"provider":          svc.Summary.ProviderName(),
			"active_sessions":   svc.Sessions.Count(),
		})
	}
}

// TestGemini sends a fixed probe prompt to the upstream model
func TestGemini(svc *services.Services, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text, err := svc.Summary.TestProvider(c.UserContext())
		if err != nil {
			status := fiber.StatusInternalServerError
			message := "Gemini API test failed"
			switch {
			case errors.Is(err, services.ErrProviderNotConfigured):
				message = "GEMINI_API_KEY not configured"
			case errors.Is(err, services.ErrUpstreamTimeout):
				status = fiber.StatusGatewayTimeout
			}
			logger.WithError(err).Error(message)
			return c.Status(status).JSON(fiber.Map{
				"success": false,
				"error":   message,
				"details": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"response": text,
			"message":  "Gemini API is working correctly",
		})
	}
}

// Metrics returns the upstream call counters
func Metrics(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary.Metrics())
	}
}

// NotFound answers every unmatched route
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":               "Route not found",
			"message":             fmt.Sprintf("Cannot %s %s", c.Method(), c.Path()),
			"available_endpoints": Endpoints,
		})
	}
}

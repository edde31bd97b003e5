package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

// GetSessions returns the live session ids
func GetSessions(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary.Sessions())
	}
}

// CleanupSessions sweeps expired sessions on demand
func CleanupSessions(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary.Cleanup())
	}
}

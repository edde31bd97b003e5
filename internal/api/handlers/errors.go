package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/api/middleware"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

// respondError maps service errors onto status codes. Validation failures
// are the caller's fault and are not logged as server errors.
func respondError(c *fiber.Ctx, logger *logrus.Logger, err error, summary string) error {
	entry := logger.WithField("request_id", middleware.GetRequestID(c)).WithField("path", c.Path())

	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		entry.WithField("reason", validationErr.Message).Info("Rejected request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Message,
		})
	case errors.Is(err, services.ErrUpstreamTimeout):
		entry.WithError(err).Error(summary)
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error":   "The AI model did not respond in time",
			"details": err.Error(),
		})
	default:
		entry.WithError(err).Error(summary)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   summary,
			"details": err.Error(),
		})
	}
}

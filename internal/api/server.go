package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/api/middleware"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

const defaultBodyLimit = 10 * 1024 * 1024

// NewApp builds the fiber app with middleware and routes attached
func NewApp(cfg *config.Config, svc *services.Services, logger *logrus.Logger) *fiber.App {
	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               "Meeting Summarizer",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:request_id}\n",
		Output: logger.Out,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: getOrigins(cfg),
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	SetupRoutes(app, svc, cfg, logger)

	return app
}

// ErrorHandler renders errors that escape a handler, including oversized
// bodies and recovered panics.
func ErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Unhandled request error")
			return c.Status(code).JSON(fiber.Map{
				"error":   "Internal server error",
				"details": err.Error(),
			})
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}
}

func getOrigins(cfg *config.Config) string {
	if cfg.Server.CORSOrigins == "" {
		return "*"
	}
	return cfg.Server.CORSOrigins
}

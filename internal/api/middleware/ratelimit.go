package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limit configuration
type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
}

// SummaryRateLimit limits the endpoints that call the upstream model.
// A non-positive Max disables limiting.
func SummaryRateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 1 * time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return fmt.Sprintf("summary:ip:%s", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please wait before requesting more summaries.",
			})
		},
		SkipFailedRequests: true,
	})
}

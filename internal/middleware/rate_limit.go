package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-principal rate limiter middleware instance.
// Anonymous requests fall back to the client IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			key := c.IP()
			if principal := PrincipalFromContext(c); principal != nil && principal.ID > 0 {
				key = strconv.FormatUint(uint64(principal.ID), 10)
			}
			return fmt.Sprintf("%s:%s", identifier, key)
		},
	})
}

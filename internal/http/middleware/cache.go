package middleware

import "github.com/gofiber/fiber/v2"

// CacheControl sets the Cache-Control response header on successful responses.
// Error responses are left uncached.
func CacheControl(value string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return err
	}
}

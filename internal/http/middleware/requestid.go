package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the ID is stored in fiber locals; error bodies and the access log read it.
	RequestIDLocalKey = "request_id"
)

// maxRequestIDLen bounds client supplied IDs before they reach logs and responses.
const maxRequestIDLen = 128

// RequestID tags every request with an ID, reusing a client supplied X-Request-ID
// when it is present and not oversized, and echoes it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

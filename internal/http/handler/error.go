package handler

import (
	"github.com/gofiber/fiber/v2"

	"userregistry/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
// Error carries the human readable message clients have always received.
type errorPayload struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	RequestID string            `json:"request_id"`
	Details   []ValidationError `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "USER_UNDERAGE", "USER_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromCtx(c),
	})
}

func writeValidationError(c *fiber.Ctx, details []ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		Error:     "Invalid request data.",
		Code:      "BAD_REQUEST",
		RequestID: requestIDFromCtx(c),
		Details:   details,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "Bad request.")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "Resource not found.")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "Method not allowed.")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "Internal server error.")
		}
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a UUID, honoring one supplied by
// the caller, and echoes it on the response.
func RequestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("requestID", id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

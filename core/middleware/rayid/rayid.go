package rayid

import (
	"entity-store/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the request and response header carrying the ray id.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a ray id. An id sent
// by the client is kept.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(logger.RayIDLocal, id)
		c.Set(Header, id)
		return c.Next()
	}
}

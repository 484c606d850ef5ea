package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response (and accepted request) header carrying the RayID.
const Header = "X-Ray-ID"

// LocalsKey is the fiber.Ctx locals key under which the RayID is stored.
const LocalsKey = "ray_id"

// New returns a middleware assigning every request a RayID.
// An incoming X-Ray-ID header is reused so upstream proxies can correlate logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}

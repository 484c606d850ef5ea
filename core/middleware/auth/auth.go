package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config holds the API key middleware settings.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Header is the request header holding the key. Defaults to X-API-Key.
	Header string
}

// New returns a middleware rejecting requests without a matching API key.
// The key may be sent in the configured header or as the api_key query parameter.
func New(cfg Config) fiber.Handler {
	header := cfg.Header
	if header == "" {
		header = "X-API-Key"
	}

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		key := c.Get(header)
		if key == "" {
			key = c.Query("api_key")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}

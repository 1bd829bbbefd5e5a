package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

const realm = "sweepmines admin"

func unauthorized(c *fiber.Ctx) error {
	// This triggers the browser to show a login dialog
	c.Set("WWW-Authenticate", `Basic realm="`+realm+`"`)

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// BasicAuth middleware that checks for basic auth credentials.
func BasicAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := Config(c)

		handler := basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.BasicAuthUsername: cfg.BasicAuthPassword,
			},
			Realm:        realm,
			Unauthorized: unauthorized,
		})

		return handler(c)
	}
}

// AuthOrToken middleware that accepts either basic auth or a token header.
func AuthOrToken() fiber.Handler {
	basicAuth := BasicAuth()

	return func(c *fiber.Ctx) error {
		token := c.Get("x-token")
		if token != "" && token == Config(c).Token {
			return c.Next()
		}

		return basicAuth(c)
	}
}

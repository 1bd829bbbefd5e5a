package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/config"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/services"
)

// Keys under which Inject stores the shared dependencies in the request locals.
const (
	ServicesKey = "services"
	ConfigKey   = "config"
	GamesKey    = "games"
)

// Inject makes the connections, configuration and game manager available to handlers.
func Inject(cfg *config.ServerConfig, svc *services.Services, games *game.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(ServicesKey, svc)
		c.Locals(ConfigKey, cfg)
		c.Locals(GamesKey, games)
		return c.Next()
	}
}

func Config(c *fiber.Ctx) *config.ServerConfig {
	return c.Locals(ConfigKey).(*config.ServerConfig) //nolint: errcheck
}

func Games(c *fiber.Ctx) *game.Manager {
	return c.Locals(GamesKey).(*game.Manager) //nolint: errcheck
}

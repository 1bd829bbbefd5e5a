package ws

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/middleware"
	"github.com/lk16/sweepmines/internal/ws"
)

func handleWs(c *websocket.Conn) {
	games := c.Locals(middleware.GamesKey).(*game.Manager) //nolint: errcheck

	h := ws.NewHandler(c, games)
	err := h.Handle()
	if err != nil {
		slog.Debug("ws connection closed", "error", err)
	}
}

func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// SetupRoutes sets up the routes for the websocket.
func SetupRoutes(app *fiber.App) {
	app.Get("/ws", upgradeOnly, websocket.New(handleWs))
}

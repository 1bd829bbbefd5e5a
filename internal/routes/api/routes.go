package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/middleware"
)

// SetupRoutes sets up the API routes.
func SetupRoutes(app *fiber.App) {
	apiGroup := app.Group("/api")

	apiGroup.Get("/difficulties", GetDifficulties)

	// Game routes
	apiGroup.Post("/games", CreateGame)
	apiGroup.Get("/games/:id", GetGame)
	apiGroup.Post("/games/:id/moves", MakeMove)
	apiGroup.Delete("/games/:id", DeleteGame)

	apiGroup.Get("/leaderboard/:difficulty", GetLeaderboard)

	// Admin routes
	adminGroup := apiGroup.Group("/admin", middleware.AuthOrToken())
	adminGroup.Get("/stats", GetStats)
	adminGroup.Get("/sessions", GetSessions)
}

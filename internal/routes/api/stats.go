package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/minefield"
	"github.com/lk16/sweepmines/internal/repository"
)

const maxLeaderboardSize = 100

// GetLeaderboard returns the fastest wins for a difficulty.
func GetLeaderboard(c *fiber.Ctx) error {
	difficulty, err := minefield.DifficultyByName(c.Params("difficulty"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := c.QueryInt("limit", repository.DefaultLeaderboardSize)
	if limit <= 0 || limit > maxLeaderboardSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 100",
		})
	}

	repo := repository.NewResultRepository(c)
	leaderboard, err := repo.Leaderboard(c.Context(), difficulty.Name, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(leaderboard)
}

// GetStats returns the outcome counters per difficulty.
func GetStats(c *fiber.Ctx) error {
	repo := repository.NewStatsRepository(c)
	stats, err := repo.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetSessions returns the live sessions of all server processes.
func GetSessions(c *fiber.Ctx) error {
	repo := repository.NewStatsRepository(c)
	sessions, err := repo.ListSessions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(sessions)
}

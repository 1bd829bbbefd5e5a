package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/middleware"
	"github.com/lk16/sweepmines/internal/minefield"
	"github.com/lk16/sweepmines/internal/models"
)

// GetDifficulties returns the preset difficulties.
func GetDifficulties(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(minefield.Difficulties())
}

// CreateGame starts a new game.
func CreateGame(c *fiber.Ctx) error {
	var req models.NewGameRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	view, err := middleware.Games(c).Create(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetGame returns the current state of a game.
func GetGame(c *fiber.Ctx) error {
	view, err := middleware.Games(c).View(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

// MakeMove applies a player action to a game.
func MakeMove(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	move, err := game.ParseMove(req)
	if err != nil {
		return errorResponse(c, err)
	}

	view, err := middleware.Games(c).Apply(c.Context(), c.Params("id"), move)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

// DeleteGame ends a game session.
func DeleteGame(c *fiber.Ctx) error {
	if err := middleware.Games(c).Delete(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

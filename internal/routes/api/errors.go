package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/game"
)

// StatusFor maps game errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, game.ErrOutOfBounds), errors.Is(err, game.ErrInvalidMove):
		return fiber.StatusBadRequest
	case errors.Is(err, game.ErrInvalidGame):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

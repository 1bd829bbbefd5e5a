package repository

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/models"
	"github.com/lk16/sweepmines/internal/services"
)

const DefaultLeaderboardSize = 10

const createResultsTableQuery = `
	CREATE TABLE IF NOT EXISTS game_results (
		id                UUID PRIMARY KEY,
		difficulty        TEXT NOT NULL,
		width             INTEGER NOT NULL,
		height            INTEGER NOT NULL,
		number_of_mines   INTEGER NOT NULL,
		won               BOOLEAN NOT NULL,
		number_of_cleared INTEGER NOT NULL,
		duration_ms       BIGINT NOT NULL,
		finished_at       TIMESTAMPTZ NOT NULL
	)`

// ResultRepository stores finished games in Postgres.
type ResultRepository struct {
	services *services.Services
}

func NewResultRepository(c *fiber.Ctx) *ResultRepository {
	return &ResultRepository{
		services: c.Locals("services").(*services.Services), //nolint: errcheck
	}
}

func NewResultRepositoryFromServices(services *services.Services) *ResultRepository {
	return &ResultRepository{
		services: services,
	}
}

// EnsureSchema creates the results table if it does not exist.
func (repo *ResultRepository) EnsureSchema(ctx context.Context) error {
	if _, err := repo.services.Postgres.ExecContext(ctx, createResultsTableQuery); err != nil {
		return fmt.Errorf("error creating game_results table: %w", err)
	}

	return nil
}

// InsertResult stores the outcome of a finished game. Storing the same game twice is a no-op.
func (repo *ResultRepository) InsertResult(ctx context.Context, result models.GameResult) error {
	query := `
		INSERT INTO game_results (
			id, difficulty, width, height, number_of_mines, won, number_of_cleared, duration_ms, finished_at
		) VALUES (
			:id, :difficulty, :width, :height, :number_of_mines, :won, :number_of_cleared, :duration_ms, :finished_at
		)
		ON CONFLICT (id) DO NOTHING`

	if _, err := repo.services.Postgres.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("error inserting game result: %w", err)
	}

	return nil
}

// Leaderboard returns the fastest won games of a difficulty.
func (repo *ResultRepository) Leaderboard(
	ctx context.Context, difficulty string, limit int,
) (models.LeaderboardResponse, error) {
	query := `
		SELECT id, difficulty, width, height, number_of_mines, won, number_of_cleared, duration_ms, finished_at
		FROM game_results
		WHERE difficulty = $1 AND won
		ORDER BY duration_ms ASC, finished_at ASC
		LIMIT $2`

	results := make([]models.GameResult, 0, limit)
	if err := repo.services.Postgres.SelectContext(ctx, &results, query, difficulty, limit); err != nil {
		return models.LeaderboardResponse{}, fmt.Errorf("error getting leaderboard: %w", err)
	}

	return models.LeaderboardResponse{
		Difficulty: difficulty,
		Results:    results,
	}, nil
}

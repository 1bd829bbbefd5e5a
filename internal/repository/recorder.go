package repository

import (
	"context"
	"errors"

	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/models"
	"github.com/lk16/sweepmines/internal/services"
)

// Recorder writes session lifecycle events to Redis and finished games to Postgres.
type Recorder struct {
	results *ResultRepository
	stats   *StatsRepository
}

var _ game.Recorder = (*Recorder)(nil)

func NewRecorder(services *services.Services) *Recorder {
	return &Recorder{
		results: NewResultRepositoryFromServices(services),
		stats:   NewStatsRepositoryFromServices(services),
	}
}

func (r *Recorder) SessionStarted(ctx context.Context, info models.SessionInfo) error {
	return errors.Join(
		r.stats.RegisterSession(ctx, info),
		r.stats.IncrementOutcome(ctx, info.Difficulty, OutcomeStarted),
	)
}

// SessionActive refreshes the registry entry and its TTL.
func (r *Recorder) SessionActive(ctx context.Context, info models.SessionInfo) error {
	return r.stats.RegisterSession(ctx, info)
}

func (r *Recorder) SessionFinished(ctx context.Context, result models.GameResult) error {
	outcome := OutcomeLost
	if result.Won {
		outcome = OutcomeWon
	}

	return errors.Join(
		r.results.InsertResult(ctx, result),
		r.stats.IncrementOutcome(ctx, result.Difficulty, outcome),
	)
}

func (r *Recorder) SessionClosed(ctx context.Context, id string) error {
	return r.stats.RemoveSession(ctx, id)
}

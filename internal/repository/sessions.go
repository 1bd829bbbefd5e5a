package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/sweepmines/internal/models"
	"github.com/lk16/sweepmines/internal/services"
)

const (
	SessionsKey = "sessions"
	SessionsTTL = 30 * time.Minute
	StatsKey    = "game_stats"
)

// Outcome fields counted per difficulty in the stats hash.
const (
	OutcomeStarted = "started"
	OutcomeWon     = "won"
	OutcomeLost    = "lost"
)

// StatsRepository keeps outcome counters and the live session registry in Redis.
type StatsRepository struct {
	services *services.Services
}

func NewStatsRepository(c *fiber.Ctx) *StatsRepository {
	return &StatsRepository{
		services: c.Locals("services").(*services.Services), //nolint: errcheck
	}
}

func NewStatsRepositoryFromServices(services *services.Services) *StatsRepository {
	return &StatsRepository{
		services: services,
	}
}

// RegisterSession stores a live session and resets the registry TTL.
func (repo *StatsRepository) RegisterSession(ctx context.Context, info models.SessionInfo) error {
	jsonData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("error marshaling session info: %w", err)
	}

	redisConn := repo.services.Redis

	err = redisConn.HSet(ctx, SessionsKey, info.ID, jsonData).Err()
	if err != nil {
		return fmt.Errorf("error storing session: %w", err)
	}

	// Set TTL on the hash
	err = redisConn.Expire(ctx, SessionsKey, SessionsTTL).Err()
	if err != nil {
		return fmt.Errorf("error setting TTL: %w", err)
	}

	return nil
}

// RemoveSession drops a session from the registry. Unknown IDs are ignored.
func (repo *StatsRepository) RemoveSession(ctx context.Context, id string) error {
	err := repo.services.Redis.HDel(ctx, SessionsKey, id).Err()
	if err != nil {
		return fmt.Errorf("error removing session: %w", err)
	}

	return nil
}

// ListSessions returns the registered sessions, most recently active first.
func (repo *StatsRepository) ListSessions(ctx context.Context) (models.SessionsResponse, error) {
	sessions, err := repo.services.Redis.HGetAll(ctx, SessionsKey).Result()
	if err != nil {
		return models.SessionsResponse{}, fmt.Errorf("error getting sessions: %w", err)
	}

	infos := make([]models.SessionInfo, 0, len(sessions))
	for _, jsonData := range sessions {
		var info models.SessionInfo
		if err := json.Unmarshal([]byte(jsonData), &info); err != nil {
			return models.SessionsResponse{}, fmt.Errorf("error unmarshaling session info: %w", err)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].LastActive.After(infos[j].LastActive)
	})

	return models.SessionsResponse{
		ActiveSessions: len(infos),
		Sessions:       infos,
	}, nil
}

// IncrementOutcome bumps the counter for one outcome of a difficulty.
func (repo *StatsRepository) IncrementOutcome(ctx context.Context, difficulty string, outcome string) error {
	field := difficulty + ":" + outcome

	err := repo.services.Redis.HIncrBy(ctx, StatsKey, field, 1).Err()
	if err != nil {
		return fmt.Errorf("error incrementing %s: %w", field, err)
	}

	return nil
}

// GetStats reads the outcome counters of all difficulties.
func (repo *StatsRepository) GetStats(ctx context.Context) (models.StatsResponse, error) {
	stats, err := repo.services.Redis.HGetAll(ctx, StatsKey).Result()
	if err != nil {
		return models.StatsResponse{}, fmt.Errorf("error getting game stats: %w", err)
	}

	difficulties := make(map[string]models.OutcomeStats)

	for key, value := range stats {
		// Parse difficulty:outcome key
		difficulty, outcome, ok := strings.Cut(key, ":")
		if !ok {
			return models.StatsResponse{}, fmt.Errorf("error parsing game stats key: %q", key)
		}

		count, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return models.StatsResponse{}, fmt.Errorf("error parsing game stats value: %w", err)
		}

		outcomeStats := difficulties[difficulty]
		switch outcome {
		case OutcomeStarted:
			outcomeStats.Started = count
		case OutcomeWon:
			outcomeStats.Won = count
		case OutcomeLost:
			outcomeStats.Lost = count
		default:
			continue
		}
		difficulties[difficulty] = outcomeStats
	}

	return models.StatsResponse{Difficulties: difficulties}, nil
}

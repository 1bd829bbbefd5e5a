package services

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/sweepmines/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services contains the connections to the external services.
type Services struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
}

func InitServices(cfg *config.ServerConfig) (*Services, error) {
	postgres, err := InitPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	redis, err := InitRedis(cfg.RedisURL)
	if err != nil {
		_ = postgres.Close()
		return nil, err
	}

	return &Services{
		Postgres: postgres,
		Redis:    redis,
	}, nil
}

// Close closes all connections.
func (s *Services) Close() error {
	return errors.Join(s.Postgres.Close(), s.Redis.Close())
}

package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSessionTTL = 30 * time.Minute
	SweepInterval     = time.Minute
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	RedisURL          string
	PostgresURL       string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string
	Prefork           bool
	SessionTTL        time.Duration
	AutoFlag          bool
}

// LoadDotEnv loads a .env file from the working directory if there is one.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
}

// LoadServerConfig loads configuration from environment variables.
func LoadServerConfig() *ServerConfig {
	LoadDotEnv()

	return &ServerConfig{
		ServerHost:        getEnvMust("SWEEPMINES_SERVER_HOST"),
		ServerPort:        getEnvMust("SWEEPMINES_SERVER_PORT"),
		RedisURL:          getEnvMust("SWEEPMINES_REDIS_URL"),
		PostgresURL:       getEnvMust("SWEEPMINES_POSTGRES_URL"),
		BasicAuthUsername: getEnvMust("SWEEPMINES_BASIC_AUTH_USER"),
		BasicAuthPassword: getEnvMust("SWEEPMINES_BASIC_AUTH_PASS"),
		Token:             getEnvMust("SWEEPMINES_TOKEN"),
		Prefork:           getEnvMustBool("SWEEPMINES_PREFORK"),
		SessionTTL:        getEnvDuration("SWEEPMINES_SESSION_TTL", DefaultSessionTTL),
		AutoFlag:          getEnvBool("SWEEPMINES_AUTO_FLAG", false),
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvMustBool(key string) bool {
	value := getEnvMust(key)

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvBool(key string, fallback bool) bool {
	if os.Getenv(key) == "" {
		return fallback
	}
	return getEnvMustBool(key)
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		slog.Error("Cannot load environment variable, it must be a positive duration", "key", key, "value", value)
		os.Exit(1)
	}

	return duration
}

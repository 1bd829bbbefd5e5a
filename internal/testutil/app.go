package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lk16/sweepmines/internal"
	"github.com/lk16/sweepmines/internal/config"
	"github.com/lk16/sweepmines/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const (
	TestToken    = "test-token"
	TestUser     = "test-user"
	TestPassword = "test-password"
)

// TestApp is an app backed by an in-memory Redis and a mocked Postgres.
type TestApp struct {
	*internal.App
	Redis    *miniredis.Miniredis
	Postgres sqlmock.Sqlmock
}

func TestConfig() *config.ServerConfig {
	return &config.ServerConfig{
		ServerHost:        "localhost",
		ServerPort:        "0",
		BasicAuthUsername: TestUser,
		BasicAuthPassword: TestPassword,
		Token:             TestToken,
		SessionTTL:        time.Minute,
	}
}

// NewTestApp builds an app for route tests on top of miniredis and a sqlmock database.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	redisServer := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := &services.Services{
		Postgres: sqlx.NewDb(db, "postgres"),
		Redis:    redisClient,
	}
	t.Cleanup(func() { _ = svc.Close() })

	return &TestApp{
		App:      internal.BuildApp(TestConfig(), svc),
		Redis:    redisServer,
		Postgres: mock,
	}
}

// Do sends a request with an optional JSON body and headers, decodes the JSON response
// into out when it is not nil and returns the status code.
func (app *TestApp) Do(t *testing.T, method, path string, body any, out any, headers ...string) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

// ErrorBody is the JSON body of failed requests.
type ErrorBody struct {
	Error string `json:"error"`
}


package internal

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lk16/sweepmines/internal/config"
	"github.com/lk16/sweepmines/internal/game"
	"github.com/lk16/sweepmines/internal/middleware"
	"github.com/lk16/sweepmines/internal/repository"
	"github.com/lk16/sweepmines/internal/routes"
	"github.com/lk16/sweepmines/internal/services"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 64 * 1024
)

// App bundles the fiber app with what the server needs to run it.
type App struct {
	*fiber.App
	Config   *config.ServerConfig
	Services *services.Services
	Games    *game.Manager
}

// SetupApp loads the configuration, connects to the external services and builds the app.
func SetupApp() *App {
	cfg := config.LoadServerConfig()

	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	return BuildApp(cfg, services)
}

// BuildApp builds the app on top of existing connections.
func BuildApp(cfg *config.ServerConfig, services *services.Services) *App {
	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	games := game.NewManager(repository.NewRecorder(services), cfg.SessionTTL, cfg.AutoFlag)

	// Turn handler panics into 500 responses
	app.Use(recover.New())

	// Setup connections to external services, config and games in Fiber app
	app.Use(middleware.Inject(cfg, services, games))

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return &App{
		App:      app,
		Config:   cfg,
		Services: services,
		Games:    games,
	}
}

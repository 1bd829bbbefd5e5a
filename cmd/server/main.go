package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk16/sweepmines/internal"
	"github.com/lk16/sweepmines/internal/config"
	"github.com/lk16/sweepmines/internal/repository"
)

func main() {
	config.SetLogLevel()

	// Setup app
	app := internal.SetupApp()
	defer app.Services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repository.NewResultRepositoryFromServices(app.Services).EnsureSchema(ctx); err != nil {
		slog.Error("Failed to create database schema", "error", err)
		os.Exit(1)
	}

	go app.Games.RunSweeper(ctx, config.SweepInterval)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
	}()

	// Start server
	address := app.Config.ServerHost + ":" + app.Config.ServerPort
	if err := app.Listen(address); err != nil {
		log.Fatal(err)
	}
}

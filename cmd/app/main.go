package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"weatherlog.app/internal/adapters/infrastructure"
	"weatherlog.app/internal/app"
	"weatherlog.app/internal/config"
	"weatherlog.app/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application exited with error", "error", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so main can exit non-zero after they finish.
func run() error {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		FilePath: cfg.Log.FilePath,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Close()
	defer slog.SetDefault(slog.Default())
	log.SetDefault()

	application, err := app.NewApplication(cfg, infrastructure.NewSlogLoggerAdapter(log.Logger))
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	slog.Info("Configuration loaded successfully",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver.String(),
		"cache", cfg.Cache.Type.String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	case sig := <-signals:
		slog.Info("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

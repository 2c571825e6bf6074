package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/fitscan-coach/internal/config"
	"github.com/vladimiradmaev/fitscan-coach/internal/di"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(cfg.LoggerSettings()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()

	logger.Info("Starting FitScan Coach...", "provider", cfg.AI.Provider, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := di.InitApp(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}
	defer cleanup()

	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", "error", err)
		cleanup()
		logger.Close()
		os.Exit(1)
	}
	logger.Info("Application stopped")
}

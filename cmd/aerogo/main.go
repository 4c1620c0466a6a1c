package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/aero-go/docs"
	"github.com/kirinyoku/aero-go/internal/app"
	"github.com/kirinyoku/aero-go/internal/config"
)

// @title Aero-Go Booking Front-End
// @version 1.0
// @description Session front-end for the airline registration and booking demo.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/showcase-backend/internal/app/showcase"
	"github.com/magabrotheeeer/showcase-backend/internal/config"
	"github.com/magabrotheeeer/showcase-backend/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting showcase-backend", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := showcase.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init application", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("server stopped with error", sl.Err(err))
		os.Exit(1)
	}
}

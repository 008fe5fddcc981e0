// Package main запускает Telegram-бота расписания.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"maiq/internal/app"
	"maiq/internal/config"
	"maiq/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatal("Invalid bot configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBotWithFactory(cfg, log)
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	runErr := bot.Start(ctx)
	_ = bot.Stop()

	if runErr != nil {
		log.Error("Bot stopped with error", zap.Error(runErr))
		os.Exit(1)
	}
	log.Info("Bot stopped successfully")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/larriantoniy/pethome_bot/internal/adapters/guard"
	"github.com/larriantoniy/pethome_bot/internal/adapters/pethome"
	"github.com/larriantoniy/pethome_bot/internal/adapters/tg"
	"github.com/larriantoniy/pethome_bot/internal/config"
	"github.com/larriantoniy/pethome_bot/internal/ports"
	"github.com/larriantoniy/pethome_bot/internal/session"
	"github.com/larriantoniy/pethome_bot/internal/useCases"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := setupLogger(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// сервис может подняться позже бота, поэтому только предупреждаем
	_ = tg.CheckEndpoint(logger, "pet-home", cfg.PetHome.Addr, cfg.PetHome.Port)

	var loginGuard ports.LoginGuard = guard.Noop{}
	if cfg.Redis.URL != "" {
		rg, err := guard.NewRedis(ctx, cfg.Redis.URL, cfg.LoginGuard.Limit, cfg.LoginGuard.Window)
		if err != nil {
			logger.Error("redis login guard unavailable, continuing without it", "error", err)
		} else {
			defer rg.Close()
			loginGuard = rg
			logger.Info("redis login guard enabled", "limit", cfg.LoginGuard.Limit, "window", cfg.LoginGuard.Window)
		}
	}

	api := pethome.NewClient(cfg.PetHome, logger.With("component", "pethome"))
	machine := useCases.NewMachine(api, loginGuard, logger)

	bot, err := tg.NewBotClient(cfg, logger.With("component", "tdlib"))
	if err != nil {
		logger.Error("tg.NewBotClient error", "error", err)
		os.Exit(1)
	}
	defer bot.Close()

	runner := useCases.NewRunner(bot, session.NewStore(), machine, logger, cfg.Workers)

	if err := runner.Run(ctx); err != nil {
		logger.Error("runner.Run error", "error", err)
		os.Exit(1)
	}

	logger.Info("exit")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return logger
}

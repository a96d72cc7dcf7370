package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"nail-studio-bot/config"
	telegram "nail-studio-bot/internal/api"
	app "nail-studio-bot/internal/application"
	"nail-studio-bot/internal/container"
	"nail-studio-bot/internal/domain/port"
	"nail-studio-bot/internal/infrastructure/gemini"
	"nail-studio-bot/internal/infrastructure/storage"
	"nail-studio-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Bot error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	genAIClient, err := gemini.NewGenAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	models := gemini.NewClient(genAIClient, cfg.TextModel, cfg.ImageModel)

	var users port.UserRepository
	if cfg.StoragePath != "" {
		repo, err := storage.NewSQLiteUserRepository(cfg.StoragePath)
		if err != nil {
			return err
		}
		defer repo.Close()
		users = repo
		slog.Info("Users stored in SQLite", "path", cfg.StoragePath)
	} else {
		users = storage.NewMemoryUserRepository()
	}

	settings := app.AnalysisSettings{MaxParallel: cfg.PreviewConcurrency}
	if cfg.PreviewRate > 0 {
		burst := max(cfg.PreviewConcurrency, 1)
		settings.Limiter = rate.NewLimiter(rate.Limit(cfg.PreviewRate), burst)
	}

	appContainer := container.New(container.Dependencies{
		Users:       users,
		Sessions:    storage.NewResultCache(cfg.ResultTTL),
		Generator:   models,
		Synthesizer: models,
		Preparer:    vision.NewPreparer(cfg.ImageMaxSide),
		SalonCode:   cfg.SalonCode,
		Analysis:    settings,
	})

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.AnalysisTimeout)
	if err != nil {
		return err
	}

	slog.Info("Bot is running...", "text_model", cfg.TextModel, "image_model", cfg.ImageModel)
	return bot.Run(ctx)
}

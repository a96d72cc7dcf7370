package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultTextModel          = "gemini-3-flash-preview"
	DefaultImageModel         = "gemini-2.5-flash-image"
	DefaultSalonCode          = "MANICURA2026"
	DefaultResultTTL          = time.Hour
	DefaultPreviewConcurrency = 3
	DefaultImageMaxSide       = 1024
	DefaultAnalysisTimeout    = 3 * time.Minute
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	TextModel  string
	ImageModel string

	// SalonCode is the shared passphrase that unlocks the bot for a user.
	SalonCode string

	// StoragePath is the SQLite file for users; empty keeps users in memory.
	StoragePath string
	ResultTTL   time.Duration

	PreviewConcurrency int
	// PreviewRate limits synthesis calls per second; 0 disables pacing.
	PreviewRate float64

	ImageMaxSide    int
	AnalysisTimeout time.Duration
	LogLevel        slog.Level
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		TextModel:     getEnv("GEMINI_TEXT_MODEL", DefaultTextModel),
		ImageModel:    getEnv("GEMINI_IMAGE_MODEL", DefaultImageModel),
		SalonCode:     getEnv("SALON_CODE", DefaultSalonCode),
		StoragePath:   os.Getenv("STORAGE_PATH"),
	}

	var err error
	if cfg.ResultTTL, err = getDuration("RESULT_TTL", DefaultResultTTL); err != nil {
		return nil, err
	}
	if cfg.AnalysisTimeout, err = getDuration("ANALYSIS_TIMEOUT", DefaultAnalysisTimeout); err != nil {
		return nil, err
	}
	if cfg.PreviewConcurrency, err = getInt("PREVIEW_CONCURRENCY", DefaultPreviewConcurrency); err != nil {
		return nil, err
	}
	if cfg.ImageMaxSide, err = getInt("IMAGE_MAX_SIDE", DefaultImageMaxSide); err != nil {
		return nil, err
	}
	if cfg.PreviewRate, err = getFloat("PREVIEW_RATE", 0); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = getLevel("LOG_LEVEL", slog.LevelInfo); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SalonCode == "" {
		return fmt.Errorf("SALON_CODE must not be empty")
	}
	if c.PreviewConcurrency < 0 {
		return fmt.Errorf("PREVIEW_CONCURRENCY must not be negative, got %d", c.PreviewConcurrency)
	}
	if c.PreviewRate < 0 {
		return fmt.Errorf("PREVIEW_RATE must not be negative, got %v", c.PreviewRate)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getLevel(key string, fallback slog.Level) (slog.Level, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return lvl, nil
}

package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/ori-platform/ori-auth/config"
)

// InitLogger initializes the structured logger.
func InitLogger(cfg config.ObservabilityConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	if err := loadDotEnv(); err != nil {
		return config.AppConfig{}, err
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// LoadDatabaseConfig loads only the document store settings. Tools that just
// inspect the database use it so they do not need the auth secret.
func LoadDatabaseConfig() (config.DatabaseConfig, error) {
	if err := loadDotEnv(); err != nil {
		return config.DatabaseConfig{}, err
	}

	var cfg config.DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse database config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// loadDotEnv loads a .env file if it exists (development).
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}

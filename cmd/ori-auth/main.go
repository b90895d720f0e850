package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ori-platform/ori-auth/config"
	mongostore "github.com/ori-platform/ori-auth/internal/adapters/mongo"
	"github.com/ori-platform/ori-auth/internal/bootstrap"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(config.ObservabilityConfig{})
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.Observability)

	logStartupInfo(ctx, logger, &cfg)

	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New()
	}

	redisClient, err := connectSessionRedis(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	gw, err := bootstrap.BuildGateway(bootstrap.GatewayConfig{
		Config: &cfg,
		Redis:  redisClient,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := gw.Close(context.WithoutCancel(ctx)); cerr != nil {
			logger.ErrorContext(ctx, "close identity gateway failed", "error", cerr)
		}
	}()

	// Connect eagerly so a bad DATABASE_URL stops startup instead of the first request.
	if _, err = gw.Handle(ctx); err != nil {
		return fmt.Errorf("identity service: %w", err)
	}

	server, serverErr, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Identity: gw,
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		logger.InfoContext(ctx, "shutdown signal received")
	case err, ok := <-serverErr:
		if ok && err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	if err := bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		Timeout: shutdownTimeout,
		Logger:  logger,
	}); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", err))
	}

	return runErr
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting ori-auth",
		"addr", cfg.HTTP.Addr(),
		"database_url", mongostore.RedactURI(cfg.Database.URL),
		"database", cfg.Database.Name,
		"session_store", string(cfg.Auth.SessionStore),
		"cors_origins", cfg.HTTP.FrontendURL,
		"dev", cfg.IsDev,
	)
}

// connectSessionRedis returns a Redis client only when sessions live in Redis.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectSessionRedis(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.Auth.SessionStore != config.SessionStoreRedis {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisDeps{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

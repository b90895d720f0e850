package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ori-platform/ori-auth/config"
	httpx "github.com/ori-platform/ori-auth/internal/http"
	"github.com/ori-platform/ori-auth/internal/observability/metrics"
	"github.com/ori-platform/ori-auth/internal/ports"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Identity ports.IdentityService
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// BuildHTTPHandler builds the router and its middleware chain.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	return httpx.NewRouter(httpx.RouterServices{
		Identity:       cfg.Identity,
		Metrics:        cfg.Metrics,
		Logger:         logger,
		CookieName:     appCfg.Auth.CookieName,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		AllowedOrigins: appCfg.HTTP.FrontendURL,
		AuthRateLimit:  appCfg.HTTP.AuthRateLimitPerMinute,
		IsDev:          appCfg.IsDev,
	})
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown, plus a channel that
// receives the listener error if the server stops on its own.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, <-chan error, error) {
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := ":3000"
	if cfg.Config != nil {
		addr = cfg.Config.HTTP.Addr()
	}

	server, errCh := startServer(logger, handler, addr)
	return server, errCh, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) (*http.Server, <-chan error) {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			errCh <- err
		}
		close(errCh)
	}()

	return server, errCh
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ori-platform/ori-auth/config"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("BETTER_AUTH_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017/ori_dev")
	t.Setenv("AUTH_SESSION_STORE", "redis")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "ori_dev", cfg.Database.Name)
	assert.Equal(t, config.SessionStoreRedis, cfg.Auth.SessionStore)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("BETTER_AUTH_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := InitLogger(config.ObservabilityConfig{LogLevel: "debug", LogFormat: "text"})
	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())
}

func TestLoadDatabaseConfig_NoSecretNeeded(t *testing.T) {
	t.Setenv("BETTER_AUTH_SECRET", "")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.URL)
	assert.Equal(t, "ori", cfg.Name)
}

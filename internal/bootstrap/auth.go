package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ori-platform/ori-auth/config"
	mongostore "github.com/ori-platform/ori-auth/internal/adapters/mongo"
	redisstore "github.com/ori-platform/ori-auth/internal/adapters/redis"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/identity"
	"github.com/ori-platform/ori-auth/internal/ports"
	"github.com/ori-platform/ori-auth/internal/service"
	"github.com/redis/go-redis/v9"
)

// GatewayConfig contains dependencies for building the identity gateway.
type GatewayConfig struct {
	Config *config.AppConfig
	// Redis is required when sessions are kept in Redis.
	Redis  redis.UniversalClient
	Logger *slog.Logger
	// Dial overrides the MongoDB dialer (tests).
	Dial identity.DialFunc
}

// BuildGateway wires the identity gateway: MongoDB for accounts, the configured
// session backend, bcrypt and signed session tokens. No connection is opened
// until the gateway is first used.
func BuildGateway(cfg GatewayConfig) (*identity.Gateway, error) {
	if cfg.Config == nil {
		return nil, apperrors.Configuration("application config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	signer, err := service.NewJWTSigner(appCfg.Auth.Secret, appCfg.Auth.BaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "BETTER_AUTH_SECRET is required")
	}

	var redisSessions ports.SessionStore
	if appCfg.Auth.SessionStore == config.SessionStoreRedis {
		if cfg.Redis == nil {
			return nil, apperrors.Configuration("AUTH_SESSION_STORE=redis requires a redis connection")
		}
		redisSessions = redisstore.NewSessionStoreWithPrefix(cfg.Redis, appCfg.Redis.KeyPrefix)
	}

	dial := cfg.Dial
	if dial == nil {
		dial = MongoDialer(appCfg.Database.ConnectTimeout)
	}

	return identity.NewGateway(identity.Config{
		URI:      appCfg.Database.URL,
		Database: appCfg.Database.Name,
		Dial:     dial,
		Factory:  identityFactory(appCfg.Auth, signer, redisSessions),
		Logger:   logger,
	}), nil
}

// identityFactory builds the identity service over a MongoDB connection.
// A non-nil sessions store replaces the MongoDB session collection.
func identityFactory(auth config.AuthConfig, signer ports.TokenSigner, sessions ports.SessionStore) identity.FactoryFunc {
	return func(_ context.Context, conn ports.StoreConn) (ports.IdentityService, error) {
		mc, ok := conn.(*mongostore.Conn)
		if !ok {
			return nil, fmt.Errorf("unexpected store connection %T", conn)
		}
		store := sessions
		if store == nil {
			store = mc.Sessions()
		}
		return newIdentityService(auth, mc.Users(), store, signer)
	}
}

func newIdentityService(
	auth config.AuthConfig,
	users ports.UserStore,
	sessions ports.SessionStore,
	signer ports.TokenSigner,
) (*service.IdentityService, error) {
	return service.NewIdentityService(service.IdentityServiceOptions{
		Users:      users,
		Sessions:   sessions,
		Hasher:     service.BcryptHasher{Cost: auth.BcryptCost},
		Tokens:     signer,
		SessionTTL: auth.SessionTTL,
	})
}

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SessionStoreKind selects the backend that holds issued sessions.
type SessionStoreKind string

const (
	// SessionStoreMongo keeps sessions in the document store next to users.
	SessionStoreMongo SessionStoreKind = "mongo"
	// SessionStoreRedis keeps sessions in Redis with a per-key TTL.
	SessionStoreRedis SessionStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "mongo", "redis":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: mongo, redis)", v)
	}
}

const (
	defaultSessionTTL = 7 * 24 * time.Hour
	minSessionTTL     = time.Minute
)

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Secret signs session tokens.
	Secret string `env:"BETTER_AUTH_SECRET,required,notEmpty"`

	// BaseURL is the public URL of the service; it is the issuer of session tokens.
	BaseURL string `env:"BETTER_AUTH_URL" envDefault:"http://localhost:3000"`

	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`

	// SessionStore picks where sessions live (mongo or redis).
	SessionStore SessionStoreKind `env:"AUTH_SESSION_STORE" envDefault:"mongo"`

	// BcryptCost is the password hashing cost.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// CookieName is the session cookie name.
	CookieName string `env:"AUTH_COOKIE_NAME" envDefault:"ori_session"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = defaultSessionTTL
	}
	if a.SessionTTL < minSessionTTL {
		a.SessionTTL = minSessionTTL
	}
	if a.BcryptCost < bcrypt.MinCost {
		a.BcryptCost = bcrypt.DefaultCost
	}
	if a.BcryptCost > bcrypt.MaxCost {
		a.BcryptCost = bcrypt.MaxCost
	}
	if a.SessionStore == "" {
		a.SessionStore = SessionStoreMongo
	}
	a.CookieName = strings.TrimSpace(a.CookieName)
	if a.CookieName == "" {
		a.CookieName = "ori_session"
	}
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
}

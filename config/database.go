package config

import (
	"net/url"
	"strings"
	"time"
)

const (
	defaultDatabaseName    = "ori"
	defaultConnectTimeout  = 10 * time.Second
	maxDatabaseConnTimeout = 2 * time.Minute
)

// DatabaseConfig contains document store configuration.
// URL is not required here; the identity gateway reports a missing URL
// the first time it is asked for a handle.
type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL"`
	Name           string        `env:"DATABASE_NAME"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Sanitize fills the database name from the URL path and clamps the timeout.
func (d *DatabaseConfig) Sanitize() {
	d.URL = strings.TrimSpace(d.URL)
	if strings.TrimSpace(d.Name) == "" {
		d.Name = databaseNameFromURL(d.URL)
	}
	if d.ConnectTimeout <= 0 {
		d.ConnectTimeout = defaultConnectTimeout
	}
	if d.ConnectTimeout > maxDatabaseConnTimeout {
		d.ConnectTimeout = maxDatabaseConnTimeout
	}
}

func databaseNameFromURL(raw string) string {
	if raw == "" {
		return defaultDatabaseName
	}
	u, err := url.Parse(raw)
	if err != nil {
		return defaultDatabaseName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabaseName
}

// RedisConfig contains Redis configuration.
// Only consulted when AUTH_SESSION_STORE=redis.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"ori:session:"`
}

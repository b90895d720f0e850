package config

import (
	"strconv"
	"strings"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"3000"`

	// FrontendURL is the browser origin allowed by CORS. Several origins may be
	// given separated by commas; an empty value disables CORS.
	FrontendURL []string `env:"FRONTEND_URL" envDefault:"http://localhost:3001"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// AuthRateLimitPerMinute caps signup and signin requests per client IP.
	// Zero disables the limit.
	AuthRateLimitPerMinute int `env:"HTTP_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Port <= 0 || h.Port > 65535 {
		h.Port = 3000
	}
	if h.AuthRateLimitPerMinute < 0 {
		h.AuthRateLimitPerMinute = 0
	}

	origins := make([]string, 0, len(h.FrontendURL))
	for _, o := range h.FrontendURL {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	h.FrontendURL = origins
}

// Addr returns the listen address for the configured port.
func (h *HTTPConfig) Addr() string {
	return ":" + strconv.Itoa(h.Port)
}

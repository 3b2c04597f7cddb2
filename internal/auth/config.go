package auth

import (
	"crypto/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTTL       = 2 * time.Hour
	defaultTokenName = "token"
)

// Config holds the admin audience token settings.
type Config struct {
	AdminSecret    []byte
	AdminTTL       time.Duration
	AdminTokenName string
}

// ConfigFromEnv reads JWT_ADMIN_SECRET, JWT_ADMIN_TTL and JWT_ADMIN_TOKEN_NAME.
// JWT_ADMIN_TTL accepts a Go duration ("2h") or a bare number of milliseconds.
func ConfigFromEnv() Config {
	return Config{
		AdminSecret:    []byte(os.Getenv("JWT_ADMIN_SECRET")),
		AdminTTL:       parseTTL(os.Getenv("JWT_ADMIN_TTL")),
		AdminTokenName: tokenName(os.Getenv("JWT_ADMIN_TOKEN_NAME")),
	}
}

func parseTTL(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultTTL
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return defaultTTL
}

func tokenName(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return defaultTokenName
	}
	return v
}

// EnsureSecret fills AdminSecret with 32 random bytes when none is configured
// and reports whether it did. Tokens signed with a generated secret do not
// survive a restart.
func (c *Config) EnsureSecret() (bool, error) {
	if len(c.AdminSecret) > 0 {
		return false, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return false, err
	}
	c.AdminSecret = b
	return true, nil
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'UTC'", quoteLiteral("UTC"))
	assert.Equal(t, "'it''s'", quoteLiteral("it's"))
	assert.Equal(t, "''", quoteLiteral(""))
}

func TestSessionStatements(t *testing.T) {
	assert.Empty(t, sessionStatements(Config{}))

	got := sessionStatements(Config{TimeZone: "Asia/Shanghai", ClientEncoding: "UTF8"})
	assert.Equal(t, []string{
		"SET TIME ZONE 'Asia/Shanghai'",
		"SET client_encoding = 'UTF8'",
	}, got)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("DATABASE_MAX_CONNS", "12")
	t.Setenv("DATABASE_TIMEZONE", "UTC")

	cfg := ConfigFromEnv()
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN)
	assert.Equal(t, 12, cfg.MaxConns)
	assert.Equal(t, "UTC", cfg.TimeZone)

	t.Setenv("DATABASE_MAX_CONNS", "nope")
	assert.Equal(t, 5, ConfigFromEnv().MaxConns)
}

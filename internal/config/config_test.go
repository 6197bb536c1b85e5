package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryStore(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("OPTIMAL_SLACK", "3")
	t.Setenv("STALE_AFTER", "6h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 3, cfg.Engine.OptimalSlack)
	assert.Equal(t, 6*time.Hour, cfg.Engine.StaleAfter)
	assert.Equal(t, 60, cfg.Engine.DefaultSeatingMinutes)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("MAX_PARTY_SIZE", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_PARTY_SIZE")
}

func TestDSN(t *testing.T) {
	d := Database{User: "u", Password: "p", Name: "q"}
	assert.Equal(t, "host=replica port=5433 user=u password=p dbname=q sslmode=disable", d.DSN("replica", "5433"))
}

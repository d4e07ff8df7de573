package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PROD_ORIGINS", "HTTP_ADDR", "DB_DRIVER", "DB_DSN", "SQLITE_PATH",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "dev.db")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "dev.db", cfg.SQLitePath)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Nil(t, cfg.TrustedProxies)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/rooms")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/rooms", cfg.DBDSN)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":   {"DB_DRIVER": "mysql"},
		"rps":      {"RATE_LIMIT_RPS": "fast"},
		"negative": {"RATE_LIMIT_RPS": "-1"},
		"burst":    {"RATE_LIMIT_BURST": "ten"},
		"level":    {"LOG_LEVEL": "loud"},
		"timeout":  {"SHUTDOWN_TIMEOUT": "soon"},
		"proxies":  {"TRUSTED_PROXIES": "10.0.0.1, gateway"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv("LOG_LEVEL", "info")
			t.Setenv("SHUTDOWN_TIMEOUT", "5s")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadProductionFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoadTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, 192.168.0.0/16 ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

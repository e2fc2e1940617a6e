package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), args)
	require.NoError(t, err)
	return cfg
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "RUN_ADDRESS", "ORDERS_DB_URL", "ORDERS_DB_KEY", "LOCAL_STORE_PATH",
		"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "AMQP_URL", "JWT_SECRET",
		"DASHBOARD_PASSWORD_HASH", "RESYNC_INTERVAL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := parse(t)

	assert.Equal(t, "localhost:8080", cfg.RunAddress)
	assert.Equal(t, "./osboard.db", cfg.LocalPath)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, time.Minute, cfg.ResyncInterval)
	assert.False(t, cfg.RemoteConfigured())
	assert.False(t, cfg.AuthEnabled())
	assert.Empty(t, cfg.JWTSecret)

	cfg.EnsureJWTSecret()
	assert.Len(t, cfg.JWTSecret, 64)
	kept := cfg.JWTSecret
	cfg.EnsureJWTSecret()
	assert.Equal(t, kept, cfg.JWTSecret)
}

func TestRemoteRequiresBothValues(t *testing.T) {
	clearEnv(t)

	t.Run("url only", func(t *testing.T) {
		t.Setenv("ORDERS_DB_URL", "postgres://db.example:5432/orders")
		assert.False(t, parse(t).RemoteConfigured())
	})

	t.Run("key only", func(t *testing.T) {
		assert.False(t, parse(t, "-k", "secret").RemoteConfigured())
	})

	t.Run("both", func(t *testing.T) {
		t.Setenv("ORDERS_DB_KEY", "secret")
		assert.True(t, parse(t, "-d", "postgres://db.example:5432/orders").RemoteConfigured())
	})
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "osboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
run_address: "file:1"
local_store_path: /var/lib/osboard.db
gemini_model: from-file
resync_interval: 30s
log_level: debug
`), 0o600))

	t.Run("file over defaults", func(t *testing.T) {
		cfg := parse(t, "-c", path)
		assert.Equal(t, "file:1", cfg.RunAddress)
		assert.Equal(t, "/var/lib/osboard.db", cfg.LocalPath)
		assert.Equal(t, "from-file", cfg.GeminiModel)
		assert.Equal(t, 30*time.Second, cfg.ResyncInterval)
		assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	})

	t.Run("flags over file", func(t *testing.T) {
		cfg := parse(t, "-c="+path, "-a", "flag:2")
		assert.Equal(t, "flag:2", cfg.RunAddress)
	})

	t.Run("env over flags", func(t *testing.T) {
		t.Setenv("RUN_ADDRESS", "env:3")
		t.Setenv("RESYNC_INTERVAL", "0s")
		cfg := parse(t, "-c", path, "-a", "flag:2")
		assert.Equal(t, "env:3", cfg.RunAddress)
		assert.Zero(t, cfg.ResyncInterval)
	})

	t.Run("CONFIG_PATH env", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", path)
		assert.Equal(t, "from-file", parse(t).GeminiModel)
	})
}

func TestAPIKeyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")
	assert.Equal(t, "gem", parse(t).GeminiAPIKey)

	t.Setenv("API_KEY", "generic")
	assert.Equal(t, "generic", parse(t).GeminiAPIKey)
}

func TestBadInputs(t *testing.T) {
	clearEnv(t)

	t.Setenv("RESYNC_INTERVAL", "soon")
	_, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.Error(t, err)

	os.Unsetenv("RESYNC_INTERVAL")
	_, err = Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-c", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

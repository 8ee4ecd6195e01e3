package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"ENVIRONMENT", "PORT", "LOG_LEVEL", "SENTRY_DSN", "ENGINE",
	"SCHEMA_PATH", "EVENT_ORDER", "INSERT_RESTS", "MAX_UPLOAD_MB",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "akao", cfg.Engine)
	assert.Equal(t, "track", cfg.EventOrder)
	assert.True(t, cfg.InsertRests)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.SentryDSN)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("EVENT_ORDER", "time")
	t.Setenv("INSERT_RESTS", "false")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("SCHEMA_PATH", "/etc/midi2hex/schema.yaml")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "time", cfg.EventOrder)
	assert.False(t, cfg.InsertRests)
	assert.Equal(t, int64(2), cfg.MaxUploadMB)
	assert.Equal(t, "/etc/midi2hex/schema.yaml", cfg.SchemaPath)
}

func TestFromEnvInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "-5")
	t.Setenv("INSERT_RESTS", "maybe")

	cfg := FromEnv()
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.InsertRests)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("ENGINE"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ENGINE=snes\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("ENGINE")
	})

	cfg := Load()
	assert.Equal(t, "snes", cfg.Engine)
}

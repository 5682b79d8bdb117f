package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "STRIP_MARKUP", "VALKEY_INIT_ADDRESS", "SCORE_CACHE_TTL", "SESSION_IDLE_TTL", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DEFAULT_PORT, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.StripMarkup)
	assert.Empty(t, cfg.Valkey.Address)
	assert.Equal(t, DEFAULT_SCORE_CACHE_TTL, cfg.ScoreCacheTTL)
	assert.Equal(t, DEFAULT_SESSION_IDLE_TTL, cfg.SessionIdleTTL)
	assert.Equal(t, DEFAULT_MAX_SESSIONS, cfg.MaxSessions)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STRIP_MARKUP", "true")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")
	t.Setenv("VALKEY_TLS", "true")
	t.Setenv("SCORE_CACHE_TTL", "60")
	t.Setenv("SESSION_IDLE_TTL", "900")
	t.Setenv("MAX_SESSIONS", "50")

	cfg := FromEnv()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.StripMarkup)
	assert.Equal(t, "localhost:6379", cfg.Valkey.Address)
	assert.True(t, cfg.Valkey.TLS)
	assert.Equal(t, time.Minute, cfg.ScoreCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, 50, cfg.MaxSessions)
}

func TestFromEnvBadValues(t *testing.T) {
	t.Setenv("SCORE_CACHE_TTL", "soon")
	t.Setenv("SESSION_IDLE_TTL", "-1")
	t.Setenv("MAX_SESSIONS", "0")

	cfg := FromEnv()
	assert.Equal(t, DEFAULT_SCORE_CACHE_TTL, cfg.ScoreCacheTTL)
	assert.Equal(t, DEFAULT_SESSION_IDLE_TTL, cfg.SessionIdleTTL)
	assert.Equal(t, DEFAULT_MAX_SESSIONS, cfg.MaxSessions)
}

func TestLoadEnvFromFeedsFromEnv(t *testing.T) {
	dir := t.TempDir()
	content := "TWEETSENSE_TEST_MARKER=loaded\nTWEETSENSE_TEST_KEPT=file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.cli"), []byte(content), 0o600))

	t.Setenv("TWEETSENSE_TEST_KEPT", "os")
	t.Cleanup(func() { os.Unsetenv("TWEETSENSE_TEST_MARKER") })

	LoadEnvFrom(dir, "cli")

	assert.Equal(t, "loaded", os.Getenv("TWEETSENSE_TEST_MARKER"))
	assert.Equal(t, "os", os.Getenv("TWEETSENSE_TEST_KEPT"))
}

func TestLoadEnvFromMissingFile(t *testing.T) {
	assert.NotPanics(t, func() { LoadEnvFrom(t.TempDir(), "nope") })
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseLevel(raw), raw)
	}
}

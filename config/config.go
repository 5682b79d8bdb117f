package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_PORT             = "8501"
	DEFAULT_SCORE_CACHE_TTL  = 24 * time.Hour
	DEFAULT_SESSION_IDLE_TTL = 2 * time.Hour
	DEFAULT_MAX_SESSIONS     = 10000
)

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

// Config holds everything the binaries read from the environment.
type Config struct {
	Env           string
	Port          string
	LogLevel      slog.Level
	StripMarkup   bool
	Valkey        ValkeyConfig
	ScoreCacheTTL time.Duration

	SessionIdleTTL time.Duration
	MaxSessions    int
}

// AppEnv returns APP_ENV, defaulting to dev.
func AppEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	return env
}

func FromEnv() Config {
	cfg := Config{
		Env:         AppEnv(),
		Port:        os.Getenv("PORT"),
		LogLevel:    ParseLevel(os.Getenv("LOG_LEVEL")),
		StripMarkup: os.Getenv("STRIP_MARKUP") == "true",
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
	}

	if cfg.Port == "" {
		cfg.Port = DEFAULT_PORT
	}

	cfg.ScoreCacheTTL = time.Duration(positiveInt("SCORE_CACHE_TTL", int(DEFAULT_SCORE_CACHE_TTL/time.Second))) * time.Second
	cfg.SessionIdleTTL = time.Duration(positiveInt("SESSION_IDLE_TTL", int(DEFAULT_SESSION_IDLE_TTL/time.Second))) * time.Second
	cfg.MaxSessions = positiveInt("MAX_SESSIONS", DEFAULT_MAX_SESSIONS)

	return cfg
}

func positiveInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.Warn("[Config] Invalid value, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return n
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

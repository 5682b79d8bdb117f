package config

import (
	"log/slog"
	"path/filepath"

	"github.com/subosito/gotenv"
)

const ENV_DIR = "config/envs"

func LoadEnv(env string) {
	LoadEnvFrom(ENV_DIR, env)
}

// LoadEnvFrom loads dir/.env.<env>. Variables already set in the OS
// environment win over the file.
func LoadEnvFrom(dir, env string) {
	envFile := filepath.Join(dir, ".env."+env)
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

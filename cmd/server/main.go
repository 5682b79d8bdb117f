package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/tweetsense/config"
	"github.com/spacesedan/tweetsense/internal/cache"
	"github.com/spacesedan/tweetsense/internal/logging"
	"github.com/spacesedan/tweetsense/internal/monitoring"
	"github.com/spacesedan/tweetsense/internal/normalize"
	"github.com/spacesedan/tweetsense/internal/pipeline"
	"github.com/spacesedan/tweetsense/internal/sentiment"
	"github.com/spacesedan/tweetsense/internal/server"
)

const VALKEY_INIT_ATTEMPTS = 3

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.FromEnv()
	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lemmatizer, err := normalize.NewGolemLemmatizer()
	if err != nil {
		slog.Error("[Main] Failed to load lemmatizer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	normalizer := normalize.New(lemmatizer, normalize.Options{StripMarkup: cfg.StripMarkup})

	var scorer sentiment.Scorer = sentiment.NewVaderScorer()
	var cacheHealthy *atomic.Bool

	if cfg.Valkey.Address != "" {
		if vc := connectValkey(cfg); vc != nil {
			defer vc.Close()

			cacheHealthy = &atomic.Bool{}
			cacheHealthy.Store(true)
			go monitoring.MonitorCacheHealth(ctx, vc, cacheHealthy)

			scorer = cache.NewCachedScorer(scorer, vc, cacheHealthy)
		}
	}

	sessions := server.NewSessionStore(cfg.SessionIdleTTL, cfg.MaxSessions)
	go sessions.RunSweeper(ctx, server.SESSION_SWEEP_INTERVAL)

	srv := server.New(pipeline.NewAnalyzer(normalizer, scorer), sessions, cacheHealthy)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-stopChan
		slog.Info("Shutting down server gracefully...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Shutdown failed",
				slog.String("error", err.Error()))
		}
	}()

	slog.Info("Initialization complete.",
		slog.String("environment", cfg.Env),
		slog.Bool("score_cache", cacheHealthy != nil))

	if err := srv.Listen(":" + cfg.Port); err != nil {
		slog.Error("[Main] Server stopped",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// connectValkey retries a few times and then gives up; the service runs
// without a score cache in that case.
func connectValkey(cfg config.Config) *cache.ValkeyCache {
	for attempt := 1; attempt <= VALKEY_INIT_ATTEMPTS; attempt++ {
		vc, err := cache.NewValkeyCache(cfg.Valkey, cfg.ScoreCacheTTL)
		if err == nil {
			return vc
		}

		slog.Warn("Valkey init failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(2 * time.Second)
	}

	slog.Warn("[Main] Running without score cache")
	return nil
}

package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15

type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckCacheHealth pings once and records the outcome in healthy.
func CheckCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := cache.Ping(pingCtx)
	isHealthy := err == nil
	wasHealthy := healthy.Swap(isHealthy)

	switch {
	case !isHealthy && wasHealthy:
		slog.Warn("[HealthCheck] Score cache is unhealthy, bypassing it",
			slog.String("error", err.Error()))
	case isHealthy && !wasHealthy:
		slog.Info("[HealthCheck] Score cache recovered")
	}
	return isHealthy
}

func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CheckCacheHealth(ctx, cache, healthy)
		}
	}
}

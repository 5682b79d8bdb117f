package cache

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/tweetsense/internal/sentiment"
)

// ScoreStore is the subset of ValkeyCache the scorer needs.
type ScoreStore interface {
	Get(ctx context.Context, text string) (sentiment.Scores, bool)
	Set(ctx context.Context, text string, scores sentiment.Scores) error
}

// CachedScorer answers from the store when it can and otherwise delegates
// to the wrapped scorer. The store is skipped entirely while unhealthy.
type CachedScorer struct {
	next    sentiment.Scorer
	store   ScoreStore
	healthy *atomic.Bool
}

func NewCachedScorer(next sentiment.Scorer, store ScoreStore, healthy *atomic.Bool) *CachedScorer {
	if healthy == nil {
		healthy = &atomic.Bool{}
		healthy.Store(true)
	}
	return &CachedScorer{next: next, store: store, healthy: healthy}
}

func (c *CachedScorer) Score(ctx context.Context, text string) (sentiment.Scores, error) {
	useStore := c.healthy.Load()

	if useStore {
		if scores, ok := c.store.Get(ctx, text); ok {
			slog.Debug("[CachedScorer] Cache hit")
			return scores, nil
		}
	}

	scores, err := c.next.Score(ctx, text)
	if err != nil {
		return scores, err
	}

	if useStore {
		if err := c.store.Set(ctx, text, scores); err != nil {
			slog.Warn("[CachedScorer] Failed to cache scores",
				slog.String("error", err.Error()))
		}
	}

	return scores, nil
}

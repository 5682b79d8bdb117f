package cache

import (
	"context"
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/tweetsense/config"
	"github.com/spacesedan/tweetsense/internal/sentiment"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_SCORE_KEY_PREFIX = "sentiment:scores:"

type ValkeyCache struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	ttl    time.Duration
	mu     sync.Mutex
}

func newClient(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyCache] failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyCache] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func NewValkeyCache(cfg config.ValkeyConfig, ttl time.Duration) (*ValkeyCache, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyCache] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyCache{Client: client, cfg: cfg, ttl: ttl}, nil
}

func (vc *ValkeyCache) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyCache) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyCache] Attempting to recreate Valkey client...")
	client, err := newClient(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyCache] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyCache] Successfully reconnected to valkey")
}

func (vc *ValkeyCache) Close() {
	vc.client().Close()
}

func (vc *ValkeyCache) Ping(ctx context.Context) error {
	c := vc.client()
	err := c.Do(ctx, c.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err
}

func (vc *ValkeyCache) Get(ctx context.Context, text string) (sentiment.Scores, bool) {
	c := vc.client()
	raw, err := vc.DoWithRetry(ctx, c.B().Get().Key(ScoreKey(text)).Build(), 2).ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyCache] Failed to read cached scores",
				slog.String("error", err.Error()))
		}
		return sentiment.Scores{}, false
	}

	scores, err := decodeScores(raw)
	if err != nil {
		slog.Warn("[ValkeyCache] Discarding unreadable cache entry",
			slog.String("error", err.Error()))
		return sentiment.Scores{}, false
	}
	return scores, true
}

func (vc *ValkeyCache) Set(ctx context.Context, text string, scores sentiment.Scores) error {
	raw, err := encodeScores(scores)
	if err != nil {
		return err
	}

	c := vc.client()
	return vc.DoWithRetry(ctx, setScoresCommand(c.B(), ScoreKey(text), raw, vc.ttl), 3).Error()
}

// setScoresCommand writes the value and its expiry in one SET so an entry
// never outlives the TTL.
func setScoresCommand(b valkey.Builder, key, raw string, ttl time.Duration) valkey.Completed {
	return b.Set().Key(key).Value(raw).Ex(ttl).Build()
}

func (vc *ValkeyCache) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	// the client recycles a sent command unless it is pinned
	completed = completed.Pin()

	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyCache] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		if isConnectionError(result.Error()) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

// ScoreKey derives the cache key for a cleaned text.
func ScoreKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return VALKEY_SCORE_KEY_PREFIX + hex.EncodeToString(sum[:])
}

func encodeScores(scores sentiment.Scores) (string, error) {
	b, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scores: %w", err)
	}
	return string(b), nil
}

func decodeScores(raw string) (sentiment.Scores, error) {
	var scores sentiment.Scores
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return scores, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return scores, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizpulse/internal/domain"
)

// ScoreReader serves the ranked top-scores view from a backing store.
type ScoreReader interface {
	TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// leaderboardKey holds the whole ranked view as one JSON value.
const leaderboardKey = "scores:top"

// LeaderboardCache caches the top-scores view in Redis and falls back to the
// reader on cache miss.
type LeaderboardCache struct {
	client *redis.Client
	reader ScoreReader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLeaderboardCache(client *redis.Client, reader ScoreReader, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		reader: reader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if entries, ok := c.cached(ctx); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(leaderboardKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if entries, ok := c.cached(ctx); ok {
			return entries, nil
		}

		entries, err := c.reader.TopScores(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(entries); err == nil {
			_ = c.client.Set(ctx, leaderboardKey, data, c.ttlWithJitter()).Err()
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardEntry), nil
}

func (c *LeaderboardCache) cached(ctx context.Context) ([]domain.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizpulse/internal/domain"
)

// ScoreReader serves the ranked top-scores view from a backing store.
type ScoreReader interface {
	TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// LeaderboardCache caches the top-scores view with TTL to avoid repeated
// store hits when no Redis is configured.
type LeaderboardCache struct {
	reader ScoreReader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	entries   []domain.LeaderboardEntry
	expiresAt time.Time
}

func NewLeaderboardCache(reader ScoreReader, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		reader: reader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	now := c.clock()

	c.mu.RLock()
	if c.expiresAt.After(now) {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("top", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.expiresAt.After(now) {
			entries := c.entries
			c.mu.RUnlock()
			return entries, nil
		}
		c.mu.RUnlock()

		entries, err := c.reader.TopScores(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries = entries
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.LeaderboardEntry), nil
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

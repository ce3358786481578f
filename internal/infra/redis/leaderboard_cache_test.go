package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizpulse/internal/domain"
)

func TestLeaderboardCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reader := &countingReader{entries: sampleEntries()}
	cache := NewLeaderboardCache(client, reader, time.Minute)

	entries, err := cache.TopScores(context.Background())
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(entries) != 2 || entries[0].UserID != "alice@example.com" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if reader.calls != 1 {
		t.Fatalf("expected reader called once, got %d", reader.calls)
	}
	if !mr.Exists(leaderboardKey) {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit the cache, reader not incremented.
	if _, err := cache.TopScores(context.Background()); err != nil {
		t.Fatalf("top scores 2: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected cache hit, reader calls=%d", reader.calls)
	}
}

func TestLeaderboardCacheRefreshesAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	reader := &countingReader{entries: sampleEntries()}
	cache := NewLeaderboardCache(client, reader, time.Minute)

	if _, err := cache.TopScores(context.Background()); err != nil {
		t.Fatalf("top scores: %v", err)
	}
	mr.Del(leaderboardKey)

	if _, err := cache.TopScores(context.Background()); err != nil {
		t.Fatalf("top scores after expiry: %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("expected reader called again after expiry, got %d", reader.calls)
	}
}

type countingReader struct {
	entries []domain.LeaderboardEntry
	calls   int
}

func (r *countingReader) TopScores(_ context.Context) ([]domain.LeaderboardEntry, error) {
	r.calls++
	return r.entries, nil
}

func sampleEntries() []domain.LeaderboardEntry {
	return []domain.LeaderboardEntry{
		{UserID: "alice@example.com", Category: "Animals", Difficulty: domain.DifficultyEasy, Score: 9},
		{UserID: "bob@example.com", Category: "Animals", Difficulty: domain.DifficultyEasy, Score: 7},
	}
}

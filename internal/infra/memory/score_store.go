package memory

import (
	"context"
	"sort"
	"sync"

	"quizpulse/internal/domain"
)

const topN = 3

// ScoreStore accumulates score records in memory and serves the ranked
// top-scores view, used when no Postgres is configured and in tests.
type ScoreStore struct {
	mu      sync.RWMutex
	records []domain.ScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

// Append stores one score row per submission.
func (s *ScoreStore) Append(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of everything appended so far.
func (s *ScoreStore) Records() []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ScoreRecord(nil), s.records...)
}

// TopScores returns the best rows per (category, difficulty), ties broken by
// earliest submission.
func (s *ScoreStore) TopScores(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type group struct {
		category   string
		difficulty domain.Difficulty
	}
	grouped := make(map[group][]domain.ScoreRecord)
	for _, r := range s.records {
		k := group{category: r.Category, difficulty: r.Difficulty}
		grouped[k] = append(grouped[k], r)
	}

	keys := make([]group, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].difficulty < keys[j].difficulty
	})

	var entries []domain.LeaderboardEntry
	for _, k := range keys {
		records := grouped[k]
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Score != records[j].Score {
				return records[i].Score > records[j].Score
			}
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
		if len(records) > topN {
			records = records[:topN]
		}
		for _, r := range records {
			entries = append(entries, domain.LeaderboardEntry{
				UserID:     r.UserID,
				Category:   r.Category,
				Difficulty: r.Difficulty,
				Score:      r.Score,
			})
		}
	}
	return entries, nil
}

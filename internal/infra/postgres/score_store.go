package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizpulse/internal/domain"
)

// topN bounds the leaderboard to the best scores per category/difficulty pair.
const topN = 3

// ScoreStore appends score records and serves the ranked top-scores view.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Append inserts one score row. Callers treat this as fire-and-forget.
func (s *ScoreStore) Append(ctx context.Context, record domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_scores (user_id, category, difficulty, score, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		record.UserID, record.Category, string(record.Difficulty), record.Score, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

// TopScores returns the best rows per (category, difficulty), ties broken by
// earliest submission.
func (s *ScoreStore) TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, category, difficulty, score FROM (
			SELECT user_id, category, difficulty, score,
			       row_number() OVER (PARTITION BY category, difficulty ORDER BY score DESC, created_at) AS rank
			FROM user_scores
		) ranked
		WHERE rank <= $1
		ORDER BY category, difficulty, score DESC`, topN)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		var difficulty string
		if err := rows.Scan(&entry.UserID, &entry.Category, &difficulty, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		entry.Difficulty = domain.Difficulty(difficulty)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read top scores: %w", err)
	}
	return entries, nil
}

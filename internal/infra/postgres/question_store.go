package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizpulse/internal/domain"
)

// QuestionStore mirrors fetched question batches into the questions table.
// The session flow never reads it back; it exists as a durability side
// channel.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

// UpsertAll writes every question, replacing any existing row with the same
// id. The incorrect-answers list is stored JSON-encoded in a text column.
func (s *QuestionStore) UpsertAll(ctx context.Context, questions []domain.Question) error {
	for _, q := range questions {
		incorrect, err := json.Marshal(q.IncorrectAnswers)
		if err != nil {
			return fmt.Errorf("encode incorrect answers: %w", err)
		}
		_, err = s.pool.Exec(ctx, `
			INSERT INTO questions (id, category, correct_answer, difficulty, incorrect_answers, question, type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				category = EXCLUDED.category,
				correct_answer = EXCLUDED.correct_answer,
				difficulty = EXCLUDED.difficulty,
				incorrect_answers = EXCLUDED.incorrect_answers,
				question = EXCLUDED.question,
				type = EXCLUDED.type`,
			q.ID, q.Category, q.CorrectAnswer, string(q.Difficulty), string(incorrect), q.Text, q.Type)
		if err != nil {
			return fmt.Errorf("upsert question %d: %w", q.ID, err)
		}
	}
	return nil
}

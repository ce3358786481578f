package memory

import (
	"context"
	"sync"

	"quizpulse/internal/domain"
)

// QuestionStore is an in-memory implementation of the question mirror, used
// when no Postgres is configured and in tests.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[int64]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[int64]domain.Question)}
}

// UpsertAll replaces any stored question with the same id.
func (s *QuestionStore) UpsertAll(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	return nil
}

// Get returns a stored question by id.
func (s *QuestionStore) Get(id int64) (domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	return q, ok
}

// Len reports how many questions are stored.
func (s *QuestionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

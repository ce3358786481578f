package memory

import (
	"context"
	"testing"

	"quizpulse/internal/domain"
)

func TestQuestionStoreReplacesOnConflict(t *testing.T) {
	store := NewQuestionStore()

	first := domain.Question{ID: 1, Category: "Animals", CorrectAnswer: "Dog", Text: "What barks?"}
	if err := store.UpsertAll(context.Background(), []domain.Question{first}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	replacement := domain.Question{ID: 1, Category: "Animals", CorrectAnswer: "Cat", Text: "What meows?"}
	if err := store.UpsertAll(context.Background(), []domain.Question{replacement}); err != nil {
		t.Fatalf("upsert replacement: %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 stored question, got %d", store.Len())
	}
	got, ok := store.Get(1)
	if !ok || got.CorrectAnswer != "Cat" {
		t.Fatalf("expected replaced question, got %+v", got)
	}
}

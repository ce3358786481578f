package memory

import (
	"context"
	"testing"
	"time"

	"quizpulse/internal/domain"
)

func TestTopScoresKeepsBestThreePerGroup(t *testing.T) {
	store := NewScoreStore()
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	scores := []struct {
		user  string
		score int
	}{
		{"a@example.com", 4},
		{"b@example.com", 9},
		{"c@example.com", 7},
		{"d@example.com", 8},
	}
	for i, s := range scores {
		record := domain.ScoreRecord{
			UserID:     s.user,
			Category:   "Animals",
			Difficulty: domain.DifficultyEasy,
			Score:      s.score,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Append(context.Background(), record); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := store.TopScores(context.Background())
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []int{9, 8, 7}
	for i, score := range want {
		if entries[i].Score != score {
			t.Fatalf("expected score %d at rank %d, got %+v", score, i, entries[i])
		}
	}
}

func TestTopScoresGroupsByCategoryAndDifficulty(t *testing.T) {
	store := NewScoreStore()
	now := time.Now()

	records := []domain.ScoreRecord{
		{UserID: "a@example.com", Category: "Animals", Difficulty: domain.DifficultyEasy, Score: 5, CreatedAt: now},
		{UserID: "b@example.com", Category: "Animals", Difficulty: domain.DifficultyHard, Score: 3, CreatedAt: now},
		{UserID: "c@example.com", Category: "History", Difficulty: domain.DifficultyEasy, Score: 8, CreatedAt: now},
	}
	for _, r := range records {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := store.TopScores(context.Background())
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected one entry per group, got %d", len(entries))
	}
	if entries[0].Difficulty != domain.DifficultyEasy || entries[0].Category != "Animals" {
		t.Fatalf("expected Animals/easy first, got %+v", entries[0])
	}
	if entries[2].Category != "History" {
		t.Fatalf("expected History last, got %+v", entries[2])
	}
}

func TestTopScoresTieBreaksByEarliestSubmission(t *testing.T) {
	store := NewScoreStore()
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	late := domain.ScoreRecord{UserID: "late@example.com", Category: "Sports", Difficulty: domain.DifficultyMedium, Score: 6, CreatedAt: base.Add(time.Hour)}
	early := domain.ScoreRecord{UserID: "early@example.com", Category: "Sports", Difficulty: domain.DifficultyMedium, Score: 6, CreatedAt: base}
	for _, r := range []domain.ScoreRecord{late, early} {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := store.TopScores(context.Background())
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if entries[0].UserID != "early@example.com" {
		t.Fatalf("expected earliest submission to rank first, got %+v", entries[0])
	}
}

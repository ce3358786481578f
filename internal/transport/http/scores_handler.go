package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"quizpulse/internal/domain"
)

// ScoreReader serves the ranked top-scores view.
type ScoreReader interface {
	TopScores(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// ScoresHandler exposes the leaderboard as JSON on GET.
type ScoresHandler struct {
	reader ScoreReader
}

func NewScoresHandler(reader ScoreReader) *ScoresHandler {
	return &ScoresHandler{reader: reader}
}

func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.reader.TopScores(r.Context())
	if err != nil {
		log.Printf("top scores: %v", err)
		http.Error(w, "failed to load scores", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(domain.Leaderboard{
		Entries:   entries,
		UpdatedAt: time.Now(),
	}); err != nil {
		log.Printf("encode scores: %v", err)
	}
}

package domain

import "time"

// Difficulty is the question difficulty requested from the trivia source.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(raw), nil
	}
	return "", ErrUnknownDifficulty
}

// Question is one multiple-choice question as delivered by the trivia source.
// IDs are generated locally (the remote source carries none) and are stable
// once assigned. Text fields may contain HTML entities; they are kept raw here
// and decoded only at the presentation edge.
type Question struct {
	ID               int64      `json:"id"`
	Category         string     `json:"category"`
	CorrectAnswer    string     `json:"correct_answer"`
	Difficulty       Difficulty `json:"difficulty"`
	IncorrectAnswers []string   `json:"incorrect_answers"`
	Text             string     `json:"question"`
	Type             string     `json:"type"`
}

// ScoreRecord is one row appended per answer submission. Score holds the
// cumulative session score at submission time, so a finished quiz leaves one
// row per submit rather than a single final row.
type ScoreRecord struct {
	UserID     string     `json:"userId"` // empty means anonymous
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LeaderboardEntry is one ranked row of the top-scores view.
type LeaderboardEntry struct {
	UserID     string     `json:"userId"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
}

// Leaderboard is the top scores grouped by category and difficulty.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

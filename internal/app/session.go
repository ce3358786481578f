package app

import (
	"context"
	"fmt"
	"html"
	"log"
	"math/rand"
	"sync"
	"time"

	"quizpulse/internal/domain"
)

// QuestionSource fetches a question batch from the trivia provider.
type QuestionSource interface {
	Fetch(ctx context.Context, categoryID int, difficulty domain.Difficulty, amount int, qtype string) ([]domain.Question, error)
}

// QuestionStore mirrors fetched questions into durable storage. The session
// only writes to it; reads would belong to an offline mode that does not
// exist yet.
type QuestionStore interface {
	UpsertAll(ctx context.Context, questions []domain.Question) error
}

// ScoreReporter appends one score record per answer submission.
type ScoreReporter interface {
	Append(ctx context.Context, record domain.ScoreRecord) error
}

// State tags the session lifecycle.
type State string

const (
	StateEmpty     State = "empty"
	StateLoading   State = "loading"
	StateActive    State = "active"
	StateRevealed  State = "revealed"
	StateCompleted State = "completed"
)

const (
	// DefaultAmount is the number of questions requested per load.
	DefaultAmount = 10
	// DefaultType restricts fetches to multiple-choice questions.
	DefaultType = "multiple"
)

// Snapshot is a presentation-ready view of the session. Question text and
// options are HTML-entity decoded; options keep the shuffle order fixed for
// the lifetime of the current question.
type Snapshot struct {
	State      State             `json:"state"`
	Category   string            `json:"category,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	Count      int               `json:"count"`
	Index      int               `json:"index"`
	Score      int               `json:"score"`
	Question   string            `json:"question,omitempty"`
	Options    []string          `json:"options,omitempty"`
	Selected   string            `json:"selected,omitempty"`
	Submitted  bool              `json:"submitted"`
}

// Session is the quiz state machine:
// Empty -> Loading -> Active(i,N) -> Revealed(i,N) -> Completed.
// All transitions are synchronous; the question-store upsert and the score
// append run as unawaited goroutines tied to a session-scoped context so a
// discarded session stops writing.
type Session struct {
	source QuestionSource
	store  QuestionStore
	scores ScoreReporter

	userID string
	amount int
	qtype  string

	mu          sync.RWMutex
	state       State
	category    string
	difficulty  domain.Difficulty
	questions   []domain.Question
	index       int
	score       int
	options     []string // decoded, shuffled once per question
	correct     string   // decoded correct answer for the current question
	selected    string
	submitted   bool
	rnd         *rand.Rand
	subscribers map[chan Snapshot]struct{}

	sideCtx    context.Context
	sideCancel context.CancelFunc
}

func NewSession(source QuestionSource, store QuestionStore, scores ScoreReporter, userID string) *Session {
	return NewSessionWithRand(source, store, scores, userID, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithRand is test-only for deterministic option shuffles.
func NewSessionWithRand(source QuestionSource, store QuestionStore, scores ScoreReporter, userID string, rnd *rand.Rand) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		source:      source,
		store:       store,
		scores:      scores,
		userID:      userID,
		amount:      DefaultAmount,
		qtype:       DefaultType,
		state:       StateEmpty,
		rnd:         rnd,
		subscribers: make(map[chan Snapshot]struct{}),
		sideCtx:     ctx,
		sideCancel:  cancel,
	}
}

// SetAmount overrides the batch size requested per load. Call before Load.
func (s *Session) SetAmount(n int) {
	if n > 0 {
		s.amount = n
	}
}

// Load replaces the active batch with a fresh fetch for category/difficulty.
// On fetch failure the session stays in Loading and the error is returned to
// the caller; there is no automatic retry. An empty batch is a valid result
// the presentation layer detects via Count.
func (s *Session) Load(ctx context.Context, category string, difficulty domain.Difficulty) error {
	s.mu.Lock()
	s.state = StateLoading
	s.category = category
	s.difficulty = difficulty
	s.questions = nil
	s.index = 0
	s.score = 0
	s.selected = ""
	s.submitted = false
	s.options = nil
	s.correct = ""
	amount, qtype := s.amount, s.qtype
	s.broadcastLocked()
	s.mu.Unlock()

	batch, err := s.source.Fetch(ctx, domain.CategoryID(category), difficulty, amount, qtype)
	if err != nil {
		log.Printf("load questions: %v", err)
		return fmt.Errorf("load questions: %w", err)
	}

	s.mu.Lock()
	// A reset or a newer load may have superseded this fetch; drop stale results.
	if s.state != StateLoading || s.category != category || s.difficulty != difficulty {
		s.mu.Unlock()
		return nil
	}
	s.questions = batch
	if len(batch) > 0 {
		s.state = StateActive
		s.shuffleCurrentLocked()
	}
	side := s.sideCtx
	s.broadcastLocked()
	s.mu.Unlock()

	if len(batch) > 0 {
		go func() {
			if err := s.store.UpsertAll(side, batch); err != nil {
				log.Printf("question store upsert: %v", err)
			}
		}()
	}
	return nil
}

// SelectAnswer records the chosen option for the current question. Score and
// state are untouched until Submit.
func (s *Session) SelectAnswer(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardActiveLocked(); err != nil {
		return err
	}
	s.selected = option
	s.broadcastLocked()
	return nil
}

// Submit scores the selected answer, moves the session to Revealed, and
// reports the running score. Returns whether the answer was correct.
func (s *Session) Submit() (bool, error) {
	s.mu.Lock()
	if err := s.guardActiveLocked(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if s.selected == "" {
		s.mu.Unlock()
		return false, domain.ErrNoSelection
	}
	s.submitted = true
	s.state = StateRevealed
	correct := s.selected == s.correct
	if correct {
		s.score++
	}
	// One record per submit carrying the running total, not one per finished
	// quiz. The backend accumulates intermediate rows on purpose.
	record := domain.ScoreRecord{
		UserID:     s.userID,
		Category:   s.category,
		Difficulty: s.difficulty,
		Score:      s.score,
		CreatedAt:  time.Now(),
	}
	side := s.sideCtx
	s.broadcastLocked()
	s.mu.Unlock()

	go func() {
		if err := s.scores.Append(side, record); err != nil {
			log.Printf("score append: %v", err)
		}
	}()
	return correct, nil
}

// Advance moves to the next question (skipping scores nothing) or to
// Completed when the last question is current.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateActive, StateRevealed:
	case StateCompleted:
		return domain.ErrQuizCompleted
	default:
		return domain.ErrNoActiveQuestion
	}
	if s.index < len(s.questions)-1 {
		s.index++
		s.selected = ""
		s.submitted = false
		s.state = StateActive
		s.shuffleCurrentLocked()
	} else {
		s.state = StateCompleted
	}
	s.broadcastLocked()
	return nil
}

// Reset wipes the session back to Empty and cancels in-flight side-channel
// writes. Valid from any state and idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideCancel()
	s.sideCtx, s.sideCancel = context.WithCancel(context.Background())
	s.state = StateEmpty
	s.category = ""
	s.difficulty = ""
	s.questions = nil
	s.index = 0
	s.score = 0
	s.selected = ""
	s.submitted = false
	s.options = nil
	s.correct = ""
	s.broadcastLocked()
}

// Close cancels in-flight side-channel writes and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideCancel()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Snapshot returns the current presentation-ready view.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) guardActiveLocked() error {
	switch s.state {
	case StateActive:
		return nil
	case StateRevealed:
		return domain.ErrAlreadySubmitted
	case StateCompleted:
		return domain.ErrQuizCompleted
	default:
		return domain.ErrNoActiveQuestion
	}
}

// shuffleCurrentLocked fixes the display order for the question at s.index.
// Shuffled exactly once per question so re-renders keep positions stable.
func (s *Session) shuffleCurrentLocked() {
	q := s.questions[s.index]
	opts := make([]string, 0, len(q.IncorrectAnswers)+1)
	opts = append(opts, html.UnescapeString(q.CorrectAnswer))
	for _, a := range q.IncorrectAnswers {
		opts = append(opts, html.UnescapeString(a))
	}
	s.rnd.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	s.options = opts
	s.correct = html.UnescapeString(q.CorrectAnswer)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Category:   s.category,
		Difficulty: s.difficulty,
		Count:      len(s.questions),
		Index:      s.index,
		Score:      s.score,
		Selected:   s.selected,
		Submitted:  s.submitted,
	}
	if s.state == StateActive || s.state == StateRevealed {
		snap.Question = html.UnescapeString(s.questions[s.index].Text)
		snap.Options = append([]string(nil), s.options...)
	}
	return snap
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow consumer never
			// blocks a transition.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

package domain

import "errors"

var (
	// ErrFetchFailed indicates the trivia source could not deliver questions.
	ErrFetchFailed = errors.New("question fetch failed")
	// ErrUnknownDifficulty is returned for a difficulty outside easy/medium/hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrNoActiveQuestion is returned when an answer operation arrives while no
	// question is being presented.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrNoSelection is returned when submit is called before an answer is selected.
	ErrNoSelection = errors.New("no answer selected")
	// ErrAlreadySubmitted is returned when the current question was already scored.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrQuizCompleted is returned for operations after the last question.
	ErrQuizCompleted = errors.New("quiz already completed")
)

package domain

import "errors"

var (
	// ErrQuizNotFound is returned when the named quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizExists is returned on create when the name is already taken.
	ErrQuizExists = errors.New("quiz already exists")
	// ErrQuizEmpty is returned when starting a quiz with no questions.
	ErrQuizEmpty = errors.New("quiz has no questions")
	// ErrQuizRunning is returned when an operation conflicts with an active run.
	ErrQuizRunning = errors.New("quiz is already running")
	// ErrQuestionIndex is returned when a question index is out of range.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrOptionIndex is returned when the correct-answer index is outside the option list.
	ErrOptionIndex = errors.New("correct option index out of range")
	// ErrNoOptions is returned when a question is built without any options.
	ErrNoOptions = errors.New("question needs at least one option")
	// ErrBadDuration is returned when a question duration is not positive.
	ErrBadDuration = errors.New("question duration must be positive")
	// ErrDuplicateAnswer is returned on a second submission from the same participant.
	ErrDuplicateAnswer = errors.New("participant already answered")
	// ErrWindowClosed is returned when a submission arrives after the window closed.
	ErrWindowClosed = errors.New("answer window is closed")
	// ErrSessionNotFound is returned when no run is active for the quiz.
	ErrSessionNotFound = errors.New("no active session for quiz")
	// ErrNoLastRound is returned when no round has been played yet.
	ErrNoLastRound = errors.New("no round information recorded")
	// ErrNoLeaderboard is returned when the quiz has no completed run.
	ErrNoLeaderboard = errors.New("no leaderboard for quiz")
)

package domain

import "time"

// Question is a single prompt with its options, the index of the correct
// option and how long the answer window stays open.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Duration     int      `json:"duration"` // seconds
}

// NewQuestion validates and builds a Question. The correct index must point
// into the option list and the duration must be positive.
func NewQuestion(text string, options []string, correctIndex, duration int) (Question, error) {
	if len(options) < 1 {
		return Question{}, ErrNoOptions
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return Question{}, ErrOptionIndex
	}
	if duration <= 0 {
		return Question{}, ErrBadDuration
	}
	return Question{
		Text:         text,
		Options:      options,
		CorrectIndex: correctIndex,
		Duration:     duration,
	}, nil
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectIndex]
}

// QuizSettings holds the per-quiz knobs toggled by admin commands.
type QuizSettings struct {
	Shuffle            bool `json:"shuffle"`
	AutoShowAnswer     bool `json:"autoShowAnswer"`
	AutoShowFastest    bool `json:"autoShowFastest"`
	FeedbackCorrect    bool `json:"feedbackCorrect"`
	FeedbackWrong      bool `json:"feedbackWrong"`
	LeaderboardCount   int  `json:"leaderboardCount"`
	LeaderboardMention bool `json:"leaderboardMention"`
}

// DefaultSettings are applied when a quiz is created.
func DefaultSettings() QuizSettings {
	return QuizSettings{
		Shuffle:            false,
		AutoShowAnswer:     true,
		AutoShowFastest:    true,
		FeedbackCorrect:    true,
		FeedbackWrong:      true,
		LeaderboardCount:   10,
		LeaderboardMention: true,
	}
}

// Quiz is a named ordered question list plus its settings.
type Quiz struct {
	Name      string       `json:"name"`
	Questions []Question   `json:"questions"`
	Settings  QuizSettings `json:"settings"`
}

// QuizInfo is the listing view of a quiz.
type QuizInfo struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

// Answer is one participant's recorded response within a round window.
// Exactly one Answer per participant per window; later submissions are
// rejected, not overwritten.
type Answer struct {
	UserID      string        `json:"userId"`
	OptionIndex int           `json:"optionIndex"`
	Correct     bool          `json:"correct"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Fastest identifies the quickest correct answer of a round.
type Fastest struct {
	UserID  string        `json:"userId"`
	Elapsed time.Duration `json:"elapsed"`
}

// LastRound is a snapshot of the most recently closed round, kept for
// on-demand queries after the round (and the run) has finished.
type LastRound struct {
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Fastest       *Fastest `json:"fastest,omitempty"`
}

// Leaderboard maps participant IDs to cumulative scores for a completed
// run. It persists until the quiz is deleted or re-run.
type Leaderboard map[string]int

// RankedEntry is one row of a sorted leaderboard view.
type RankedEntry struct {
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

// ResultRow is the export schema: identity, resolved display name, score.
type ResultRow struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

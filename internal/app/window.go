package app

import (
	"sync"
	"time"

	"discord-quiz-bot/internal/domain"
)

// RoundWindow is the answer-collection period for a single question. It is
// shared by concurrently arriving submissions; the duplicate check and the
// record happen under one lock so no participant can answer twice.
type RoundWindow struct {
	options      []string
	correctIndex int
	startedAt    time.Time
	now          func() time.Time

	mu      sync.Mutex
	closed  bool
	answers map[string]domain.Answer
	order   []string // user IDs in record order, for the stable tie-break
}

// OpenWindow opens a window over the (possibly shuffled) option list with
// the start timestamp set to now.
func OpenWindow(options []string, correctIndex int) *RoundWindow {
	return NewWindowWithClock(options, correctIndex, time.Now)
}

// NewWindowWithClock is test-only for deterministic elapsed times.
func NewWindowWithClock(options []string, correctIndex int, now func() time.Time) *RoundWindow {
	return &RoundWindow{
		options:      options,
		correctIndex: correctIndex,
		startedAt:    now(),
		now:          now,
		answers:      make(map[string]domain.Answer),
	}
}

// Submit records the participant's answer. The first submission per
// participant wins; later ones fail with ErrDuplicateAnswer and leave the
// recorded answer untouched. After Close every submission fails with
// ErrWindowClosed.
func (w *RoundWindow) Submit(userID string, optionIndex int) (domain.Answer, error) {
	elapsed := w.now().Sub(w.startedAt)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return domain.Answer{}, domain.ErrWindowClosed
	}
	if _, ok := w.answers[userID]; ok {
		return domain.Answer{}, domain.ErrDuplicateAnswer
	}

	answer := domain.Answer{
		UserID:      userID,
		OptionIndex: optionIndex,
		Correct:     optionIndex == w.correctIndex,
		Elapsed:     elapsed,
	}
	w.answers[userID] = answer
	w.order = append(w.order, userID)
	return answer, nil
}

// Close freezes the window. Idempotent.
func (w *RoundWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// Answers returns the recorded answers in submission order.
func (w *RoundWindow) Answers() []domain.Answer {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.Answer, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.answers[id])
	}
	return out
}

// Options returns the option list the window was opened with.
func (w *RoundWindow) Options() []string { return w.options }

// CorrectIndex returns the index of the correct option within Options.
func (w *RoundWindow) CorrectIndex() int { return w.correctIndex }

package app

import (
	"errors"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"discord-quiz-bot/internal/domain"
)

// Session states.
const (
	StateRunning      = "RUNNING"
	StateWindowOpen   = "WINDOW_OPEN"
	StateWindowClosed = "WINDOW_CLOSED"
	StateCompleted    = "COMPLETED"
	StateStopped      = "STOPPED"
)

// ScoreUpdate is a running-totals snapshot pushed to subscribers after each
// round and once more when the run finalizes.
type ScoreUpdate struct {
	Quiz   string             `json:"quiz"`
	Round  int                `json:"round"` // 1-based round just closed, 0 for the initial snapshot
	Final  bool               `json:"final"`
	Scores domain.Leaderboard `json:"scores"`
}

// Session is the ephemeral run-state of one in-progress quiz execution.
// The question list and settings are snapshotted at start, so edits to the
// stored quiz during the run do not affect it.
type Session struct {
	ID      string
	Quiz    string
	shuffle bool

	questions []domain.Question
	settings  domain.QuizSettings

	stopFlag atomic.Bool
	now      func() time.Time
	rnd      *rand.Rand

	mu           sync.Mutex
	state        string
	round        int // index of the current question
	window       *RoundWindow
	scores       map[string]int
	participants map[string]struct{}
	subscribers  map[chan ScoreUpdate]struct{}
}

func newSession(quiz domain.Quiz, shuffle bool, now func() time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Quiz:         quiz.Name,
		shuffle:      shuffle,
		questions:    slices.Clone(quiz.Questions),
		settings:     quiz.Settings,
		now:          now,
		rnd:          rand.New(rand.NewSource(now().UnixNano())),
		state:        StateRunning,
		scores:       make(map[string]int),
		participants: make(map[string]struct{}),
		subscribers:  make(map[chan ScoreUpdate]struct{}),
	}
}

// RequestStop raises the cooperative stop flag. The run loop observes it at
// the next tick boundary; nothing is interrupted mid-operation.
func (s *Session) RequestStop() { s.stopFlag.Store(true) }

// Stopped reports whether a stop has been requested.
func (s *Session) Stopped() bool { return s.stopFlag.Load() }

// State returns the current state machine state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// openRound opens the answer window for question idx over the given
// (possibly shuffled) options.
func (s *Session) openRound(idx int, options []string, correctIndex int) *RoundWindow {
	w := NewWindowWithClock(options, correctIndex, s.now)
	s.mu.Lock()
	s.round = idx
	s.window = w
	s.state = StateWindowOpen
	s.mu.Unlock()
	return w
}

// closeRound freezes the current window and detaches it so late
// submissions fail with ErrWindowClosed.
func (s *Session) closeRound() {
	s.mu.Lock()
	w := s.window
	s.window = nil
	s.state = StateWindowClosed
	s.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

// submit routes a participant's answer to the open window. Everyone who
// reaches an open window is remembered as a participant, including those
// whose duplicate submission is rejected.
func (s *Session) submit(userID string, optionIndex int) (domain.Answer, error) {
	s.mu.Lock()
	w := s.window
	s.mu.Unlock()

	if w == nil {
		return domain.Answer{}, domain.ErrWindowClosed
	}

	answer, err := w.Submit(userID, optionIndex)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAnswer) {
			s.addParticipant(userID)
		}
		return domain.Answer{}, err
	}
	s.addParticipant(userID)
	return answer, nil
}

func (s *Session) addParticipant(userID string) {
	s.mu.Lock()
	s.participants[userID] = struct{}{}
	s.mu.Unlock()
}

// fold adds the closed round's awards into the running totals and pushes a
// snapshot to subscribers.
func (s *Session) fold(idx int, awards map[string]int) {
	s.mu.Lock()
	Fold(s.scores, awards)
	update := ScoreUpdate{
		Quiz:   s.Quiz,
		Round:  idx + 1,
		Scores: s.snapshotLocked(),
	}
	s.broadcastLocked(update)
	s.mu.Unlock()
}

// finalize zero-fills non-scoring participants, records the terminal state
// and closes all subscriber channels.
func (s *Session) finalize(stopped bool) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	lb := Finalize(s.scores, s.participants)
	if stopped {
		s.state = StateStopped
	} else {
		s.state = StateCompleted
	}
	s.broadcastLocked(ScoreUpdate{Quiz: s.Quiz, Round: s.round + 1, Final: true, Scores: lb})
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	return lb
}

// participantIDs returns a sorted snapshot of everyone who submitted.
func (s *Session) participantIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.participants))
	for id := range s.participants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// subscribe registers a score feed subscriber. It immediately receives the
// current snapshot. The cancel func must be called to avoid leaks; it is a
// no-op after the run finalizes.
func (s *Session) subscribe() (<-chan ScoreUpdate, func()) {
	ch := make(chan ScoreUpdate, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// Sent under the lock so finalize cannot close ch first.
	ch <- ScoreUpdate{Quiz: s.Quiz, Scores: s.snapshotLocked()}
	s.mu.Unlock()

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

func (s *Session) broadcastLocked(update ScoreUpdate) {
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Drop the stale update so a slow reader cannot block the run.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

func (s *Session) snapshotLocked() domain.Leaderboard {
	lb := make(domain.Leaderboard, len(s.scores))
	for userID, score := range s.scores {
		lb[userID] = score
	}
	return lb
}

// shuffleOptions permutes the option list and remaps the correct index so
// it still points at the option text that was correct before the shuffle.
func shuffleOptions(rnd *rand.Rand, options []string, correctIndex int) ([]string, int) {
	correctText := options[correctIndex]
	shuffled := slices.Clone(options)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, slices.Index(shuffled, correctText)
}

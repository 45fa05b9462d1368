package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"discord-quiz-bot/internal/domain"
)

const (
	defaultTick  = time.Second
	defaultPause = 3 * time.Second
)

// Config wires the quiz service's collaborators.
type Config struct {
	Quizzes   QuizRepository
	Sessions  SessionRegistry
	Identity  IdentityResolver
	Exporters []Exporter
	Logger    *slog.Logger

	// Tick is the countdown granularity, Pause the delay between questions.
	// Zero values use the production defaults (1s / 3s); tests shorten them.
	Tick  time.Duration
	Pause time.Duration

	// Clock is test-only for deterministic timestamps.
	Clock func() time.Time
}

// QuizService owns the quiz registry and the active sessions, and exposes
// every operation of the administrative command surface plus answer intake.
type QuizService struct {
	quizzes   QuizRepository
	sessions  SessionRegistry
	identity  IdentityResolver
	exporters []Exporter
	log       *slog.Logger
	tick      time.Duration
	pause     time.Duration
	now       func() time.Time

	mu           sync.RWMutex
	lastRounds   map[string]domain.LastRound
	leaderboards map[string]domain.Leaderboard
	participants map[string][]string
}

func NewQuizService(c Config) *QuizService {
	s := &QuizService{
		quizzes:      c.Quizzes,
		sessions:     c.Sessions,
		identity:     c.Identity,
		exporters:    c.Exporters,
		log:          c.Logger,
		tick:         c.Tick,
		pause:        c.Pause,
		now:          c.Clock,
		lastRounds:   make(map[string]domain.LastRound),
		leaderboards: make(map[string]domain.Leaderboard),
		participants: make(map[string][]string),
	}
	if s.identity == nil {
		s.identity = fallbackResolver{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.tick <= 0 {
		s.tick = defaultTick
	}
	if s.pause <= 0 {
		s.pause = defaultPause
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateQuiz registers a new empty quiz under the given name.
func (s *QuizService) CreateQuiz(name string) error {
	return s.quizzes.Create(name)
}

// AddQuestion appends a validated question to the quiz.
func (s *QuizService) AddQuestion(name string, q domain.Question) error {
	return s.quizzes.AppendQuestion(name, q)
}

// EditQuestion replaces the question at index (0-based).
func (s *QuizService) EditQuestion(name string, index int, q domain.Question) error {
	return s.quizzes.ReplaceQuestion(name, index, q)
}

// BulkAdd parses each line independently and appends the well-formed ones.
// Malformed lines are skipped, not fatal; the count of added questions is
// returned.
func (s *QuizService) BulkAdd(name string, lines []string) (int, error) {
	return s.quizzes.BulkAdd(name, lines)
}

// DeleteQuiz removes the quiz together with its last-round snapshot,
// leaderboard and participant record. Deleting a quiz that is currently
// running is refused.
func (s *QuizService) DeleteQuiz(name string) error {
	if _, ok := s.sessions.Get(name); ok {
		return domain.ErrQuizRunning
	}
	if err := s.quizzes.Delete(name); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.lastRounds, name)
	delete(s.leaderboards, name)
	delete(s.participants, name)
	s.mu.Unlock()
	return nil
}

// ListQuizzes returns (name, question count) pairs sorted by name.
func (s *QuizService) ListQuizzes() []domain.QuizInfo {
	return s.quizzes.List()
}

// QuizContent returns the full quiz definition.
func (s *QuizService) QuizContent(name string) (domain.Quiz, error) {
	quiz, ok := s.quizzes.Get(name)
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// Settings returns the quiz's settings record.
func (s *QuizService) Settings(name string) (domain.QuizSettings, error) {
	settings, ok := s.quizzes.Settings(name)
	if !ok {
		return domain.QuizSettings{}, domain.ErrQuizNotFound
	}
	return settings, nil
}

// SetShuffle sets the shuffle-on-start flag.
func (s *QuizService) SetShuffle(name string, on bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) { c.Shuffle = on })
}

// SetAutoShowAnswer toggles posting the correct answer after each round.
func (s *QuizService) SetAutoShowAnswer(name string, on bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) { c.AutoShowAnswer = on })
}

// SetAutoShowFastest toggles posting the fastest answer after each round.
func (s *QuizService) SetAutoShowFastest(name string, on bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) { c.AutoShowFastest = on })
}

// SetFeedbackCorrect toggles per-answer feedback for correct answers.
func (s *QuizService) SetFeedbackCorrect(name string, on bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) { c.FeedbackCorrect = on })
}

// SetFeedbackWrong toggles per-answer feedback for incorrect answers.
func (s *QuizService) SetFeedbackWrong(name string, on bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) { c.FeedbackWrong = on })
}

// SetLeaderboard sets how many entries the leaderboard view shows and
// whether participants are mentioned or shown by name only.
func (s *QuizService) SetLeaderboard(name string, count int, mention bool) error {
	return s.quizzes.UpdateSettings(name, func(c *domain.QuizSettings) {
		c.LeaderboardCount = count
		c.LeaderboardMention = mention
	})
}

// StartQuiz begins a run of the named quiz. The question list and settings
// are snapshotted at this point. A non-nil shuffleOverride takes precedence
// over the stored shuffle setting. The run itself executes on its own
// goroutine; progress is rendered through display.
func (s *QuizService) StartQuiz(ctx context.Context, name string, shuffleOverride *bool, display DisplayPort) error {
	quiz, ok := s.quizzes.Get(name)
	if !ok {
		return domain.ErrQuizNotFound
	}
	if len(quiz.Questions) == 0 {
		return domain.ErrQuizEmpty
	}

	shuffle := quiz.Settings.Shuffle
	if shuffleOverride != nil {
		shuffle = *shuffleOverride
	}

	sess := newSession(quiz, shuffle, s.now)
	if !s.sessions.Register(name, sess) {
		return domain.ErrQuizRunning
	}

	go s.run(ctx, sess, display)
	return nil
}

// StopQuiz raises the stop flag on the active session. Finalization happens
// cooperatively at the run loop's next tick boundary.
func (s *QuizService) StopQuiz(name string) error {
	sess, ok := s.sessions.Get(name)
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.RequestStop()
	return nil
}

// IsRunning reports whether a session is active for the quiz.
func (s *QuizService) IsRunning(name string) bool {
	_, ok := s.sessions.Get(name)
	return ok
}

// SubmitResult is what a transport needs to acknowledge a submission.
type SubmitResult struct {
	Answer domain.Answer
	// ShowFeedback reflects the quiz's per-answer feedback setting for
	// this answer's correctness.
	ShowFeedback bool
}

// SubmitAnswer records the participant's answer for the currently open
// round of the named quiz.
func (s *QuizService) SubmitAnswer(name, userID string, optionIndex int) (SubmitResult, error) {
	sess, ok := s.sessions.Get(name)
	if !ok {
		return SubmitResult{}, domain.ErrSessionNotFound
	}

	answer, err := sess.submit(userID, optionIndex)
	if err != nil {
		return SubmitResult{}, err
	}

	show := sess.settings.FeedbackWrong
	if answer.Correct {
		show = sess.settings.FeedbackCorrect
	}
	return SubmitResult{Answer: answer, ShowFeedback: show}, nil
}

// SubscribeScores attaches a subscriber to the active session's score feed.
// The channel is closed when the run finalizes or cancel is called.
func (s *QuizService) SubscribeScores(name string) (<-chan ScoreUpdate, func(), error) {
	sess, ok := s.sessions.Get(name)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := sess.subscribe()
	return ch, cancel, nil
}

// LastRound returns the snapshot of the most recently closed round.
func (s *QuizService) LastRound(name string) (domain.LastRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last, ok := s.lastRounds[name]
	if !ok {
		return domain.LastRound{}, domain.ErrNoLastRound
	}
	return last, nil
}

// Leaderboard returns the finalized leaderboard of the quiz's last run.
func (s *QuizService) Leaderboard(name string) (domain.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lb, ok := s.leaderboards[name]
	if !ok {
		return nil, domain.ErrNoLeaderboard
	}
	out := make(domain.Leaderboard, len(lb))
	for userID, score := range lb {
		out[userID] = score
	}
	return out, nil
}

// LeaderboardView returns the top entries per the quiz's leaderboard
// settings, together with those settings for rendering.
func (s *QuizService) LeaderboardView(name string) ([]domain.RankedEntry, domain.QuizSettings, error) {
	lb, err := s.Leaderboard(name)
	if err != nil {
		return nil, domain.QuizSettings{}, err
	}
	settings, ok := s.quizzes.Settings(name)
	if !ok {
		settings = domain.DefaultSettings()
	}
	return Top(lb, settings.LeaderboardCount), settings, nil
}

// Participants returns the IDs of everyone who submitted during the active
// run if one is in progress, or during the quiz's last completed run.
func (s *QuizService) Participants(name string) []string {
	if sess, ok := s.sessions.Get(name); ok {
		return sess.participantIDs()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participants[name]
}

// Resolve maps a participant ID to a display identity.
func (s *QuizService) Resolve(userID string) Identity {
	return s.identity.Resolve(userID)
}

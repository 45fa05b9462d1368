package app

import (
	"context"
	"fmt"

	"discord-quiz-bot/internal/domain"
)

// DisplayHandle is an opaque reference to a rendered question, returned by
// the display port and threaded back into later calls.
type DisplayHandle any

// RoundView is everything the display port needs to render one question.
type RoundView struct {
	Quiz      string
	Number    int // 1-based position within the run
	Total     int
	Text      string
	Options   []string
	Remaining int // seconds
}

// DisplayPort renders a running quiz to wherever participants watch it.
// Implementations are external collaborators; the engine only invokes them
// and logs failures.
type DisplayPort interface {
	ShowQuestion(ctx context.Context, view RoundView) (DisplayHandle, error)
	UpdateCountdown(ctx context.Context, handle DisplayHandle, remaining int) error
	DisableInput(ctx context.Context, handle DisplayHandle) error
	Post(ctx context.Context, text string) error
}

// Identity is a resolved participant: a plain display name and a mention
// string for surfaces that support it.
type Identity struct {
	Name    string
	Mention string
}

// IdentityResolver maps participant IDs to display identities.
type IdentityResolver interface {
	Resolve(userID string) Identity
}

// UnknownIdentity is the fallback when a participant cannot be resolved,
// e.g. they left the guild between answering and export.
func UnknownIdentity(userID string) Identity {
	name := fmt.Sprintf("Unknown(%s)", userID)
	return Identity{Name: name, Mention: name}
}

type fallbackResolver struct{}

func (fallbackResolver) Resolve(userID string) Identity {
	return UnknownIdentity(userID)
}

// Exporter publishes the finalized results of a run. It is the only place
// quiz data crosses the process boundary.
type Exporter interface {
	Publish(ctx context.Context, quiz string, rows []domain.ResultRow) error
}

// QuizRepository is the quiz definition registry consumed by the service.
type QuizRepository interface {
	Create(name string) error
	Get(name string) (domain.Quiz, bool)
	AppendQuestion(name string, q domain.Question) error
	ReplaceQuestion(name string, index int, q domain.Question) error
	BulkAdd(name string, lines []string) (int, error)
	Delete(name string) error
	List() []domain.QuizInfo
	Settings(name string) (domain.QuizSettings, bool)
	UpdateSettings(name string, fn func(*domain.QuizSettings)) error
}

// SessionRegistry tracks the at-most-one active session per quiz name.
type SessionRegistry interface {
	// Register claims the quiz name for the session. It reports false if a
	// session is already active for that name.
	Register(name string, s *Session) bool
	Get(name string) (*Session, bool)
	Remove(name string)
}

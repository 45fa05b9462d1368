package memory

import (
	"sync"

	"discord-quiz-bot/internal/app"
)

// SessionRegistry is the in-memory implementation of app.SessionRegistry.
// It enforces the at-most-one-active-session-per-quiz invariant.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*app.Session)}
}

func (r *SessionRegistry) Register(name string, s *app.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[name]; ok {
		return false
	}
	r.sessions[name] = s
	return true
}

func (r *SessionRegistry) Get(name string) (*app.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[name]
	return s, ok
}

func (r *SessionRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, name)
}

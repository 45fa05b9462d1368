package memory

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"discord-quiz-bot/internal/domain"
)

// QuizStore is the in-memory quiz registry. All quiz definitions live here
// for the process lifetime; there is no backing store.
//
// Administrative mutations are expected from a single flow at a time, but
// the store is still locked because reads happen from running sessions.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]*domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]*domain.Quiz)}
}

// Create registers an empty quiz with default settings.
func (s *QuizStore) Create(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[name]; ok {
		return domain.ErrQuizExists
	}
	s.quizzes[name] = &domain.Quiz{
		Name:     name,
		Settings: domain.DefaultSettings(),
	}
	return nil
}

// Get returns a snapshot of the quiz. The question slice is cloned so a
// running session is not affected by later edits.
func (s *QuizStore) Get(name string) (domain.Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return domain.Quiz{}, false
	}
	out := *quiz
	out.Questions = append([]domain.Question(nil), quiz.Questions...)
	return out, true
}

// AppendQuestion adds a question to the end of the quiz's list.
func (s *QuizStore) AppendQuestion(name string, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.Questions = append(quiz.Questions, q)
	return nil
}

// ReplaceQuestion swaps the question at index (0-based).
func (s *QuizStore) ReplaceQuestion(name string, index int, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if index < 0 || index >= len(quiz.Questions) {
		return domain.ErrQuestionIndex
	}
	quiz.Questions[index] = q
	return nil
}

// BulkAdd parses each line as "duration|correct|question|opt1|opt2|..." and
// appends the well-formed ones. Malformed lines (wrong field count,
// non-integer numbers, out-of-range correct index, non-positive duration)
// are skipped without aborting the batch. Returns how many were added.
func (s *QuizStore) BulkAdd(name string, lines []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return 0, domain.ErrQuizNotFound
	}

	added := 0
	for _, line := range lines {
		q, err := parseQuestionLine(line)
		if err != nil {
			continue
		}
		quiz.Questions = append(quiz.Questions, q)
		added++
	}
	return added, nil
}

// Delete removes the quiz. Absent names report ErrQuizNotFound.
func (s *QuizStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[name]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, name)
	return nil
}

// List returns (name, question count) pairs sorted by name.
func (s *QuizStore) List() []domain.QuizInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.QuizInfo, 0, len(s.quizzes))
	for name, quiz := range s.quizzes {
		infos = append(infos, domain.QuizInfo{Name: name, Questions: len(quiz.Questions)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Settings returns the quiz's settings record.
func (s *QuizStore) Settings(name string) (domain.QuizSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return domain.QuizSettings{}, false
	}
	return quiz.Settings, true
}

// UpdateSettings applies fn to the quiz's settings under the lock.
func (s *QuizStore) UpdateSettings(name string, fn func(*domain.QuizSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[name]
	if !ok {
		return domain.ErrQuizNotFound
	}
	fn(&quiz.Settings)
	return nil
}

func parseQuestionLine(line string) (domain.Question, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 4 {
		return domain.Question{}, domain.ErrNoOptions
	}
	duration, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.Question{}, domain.ErrBadDuration
	}
	correctIndex, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Question{}, domain.ErrOptionIndex
	}
	text := strings.TrimSpace(parts[2])
	options := make([]string, 0, len(parts)-3)
	for _, p := range parts[3:] {
		if opt := strings.TrimSpace(p); opt != "" {
			options = append(options, opt)
		}
	}
	return domain.NewQuestion(text, options, correctIndex, duration)
}

package memory

import (
	"errors"
	"testing"

	"discord-quiz-bot/internal/domain"
)

func question(t *testing.T, text string, options []string, correct, duration int) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(text, options, correct, duration)
	if err != nil {
		t.Fatalf("build question: %v", err)
	}
	return q
}

func TestQuizStoreCreateDeleteRoundtrip(t *testing.T) {
	store := NewQuizStore()

	if err := store.Create("history"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create("history"); !errors.Is(err, domain.ErrQuizExists) {
		t.Fatalf("expected ErrQuizExists, got %v", err)
	}

	quiz, ok := store.Get("history")
	if !ok || quiz.Name != "history" || len(quiz.Questions) != 0 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if quiz.Settings != domain.DefaultSettings() {
		t.Fatalf("new quiz should carry default settings: %+v", quiz.Settings)
	}

	if err := store.Delete("history"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("history"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	// The name is free again after deletion.
	if err := store.Create("history"); err != nil {
		t.Fatalf("recreate: %v", err)
	}
}

func TestQuizStoreAppendAndReplace(t *testing.T) {
	store := NewQuizStore()
	if err := store.Create("math"); err != nil {
		t.Fatalf("create: %v", err)
	}

	q1 := question(t, "2+2?", []string{"3", "4"}, 1, 20)
	if err := store.AppendQuestion("math", q1); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendQuestion("missing", q1); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	q2 := question(t, "3+3?", []string{"6", "7"}, 0, 20)
	if err := store.ReplaceQuestion("math", 0, q2); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := store.ReplaceQuestion("math", 1, q2); !errors.Is(err, domain.ErrQuestionIndex) {
		t.Fatalf("expected ErrQuestionIndex, got %v", err)
	}
	if err := store.ReplaceQuestion("math", -1, q2); !errors.Is(err, domain.ErrQuestionIndex) {
		t.Fatalf("expected ErrQuestionIndex for negative index, got %v", err)
	}

	quiz, _ := store.Get("math")
	if len(quiz.Questions) != 1 || quiz.Questions[0].Text != "3+3?" {
		t.Fatalf("unexpected questions: %+v", quiz.Questions)
	}
}

func TestQuizStoreGetReturnsSnapshot(t *testing.T) {
	store := NewQuizStore()
	if err := store.Create("snap"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AppendQuestion("snap", question(t, "q1", []string{"a", "b"}, 0, 20)); err != nil {
		t.Fatalf("append: %v", err)
	}

	before, _ := store.Get("snap")
	if err := store.AppendQuestion("snap", question(t, "q2", []string{"a", "b"}, 0, 20)); err != nil {
		t.Fatalf("append: %v", err)
	}

	if len(before.Questions) != 1 {
		t.Fatalf("earlier snapshot changed under a later edit: %+v", before.Questions)
	}
}

func TestQuizStoreBulkAddSkipsMalformedLines(t *testing.T) {
	store := NewQuizStore()
	if err := store.Create("bulk"); err != nil {
		t.Fatalf("create: %v", err)
	}

	added, err := store.BulkAdd("bulk", []string{
		"20|0|Capital of France?|Paris|Rome",
		"not-a-number|0|broken line|a|b",
		"20|5|correct index out of range|a|b",
		"15|1|Largest planet?|Saturn|Jupiter",
	})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}

	quiz, _ := store.Get("bulk")
	if len(quiz.Questions) != 2 || quiz.Questions[1].CorrectText() != "Jupiter" {
		t.Fatalf("unexpected questions: %+v", quiz.Questions)
	}

	if _, err := store.BulkAdd("missing", []string{"20|0|q|a|b"}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizStoreListSortedByName(t *testing.T) {
	store := NewQuizStore()
	for _, name := range []string{"zoo", "art", "math"} {
		if err := store.Create(name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := store.AppendQuestion("math", question(t, "q", []string{"a", "b"}, 0, 20)); err != nil {
		t.Fatalf("append: %v", err)
	}

	infos := store.List()
	want := []domain.QuizInfo{
		{Name: "art", Questions: 0},
		{Name: "math", Questions: 1},
		{Name: "zoo", Questions: 0},
	}
	if len(infos) != len(want) {
		t.Fatalf("unexpected list: %+v", infos)
	}
	for i := range want {
		if infos[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], infos[i])
		}
	}
}

func TestQuizStoreUpdateSettings(t *testing.T) {
	store := NewQuizStore()
	if err := store.Create("cfg"); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := store.UpdateSettings("cfg", func(c *domain.QuizSettings) {
		c.Shuffle = true
		c.LeaderboardCount = 3
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	settings, ok := store.Settings("cfg")
	if !ok || !settings.Shuffle || settings.LeaderboardCount != 3 {
		t.Fatalf("unexpected settings: %+v", settings)
	}

	err = store.UpdateSettings("missing", func(*domain.QuizSettings) {})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestSessionRegistrySingleActiveSession(t *testing.T) {
	reg := NewSessionRegistry()

	if !reg.Register("quiz", nil) {
		t.Fatalf("first registration refused")
	}
	if reg.Register("quiz", nil) {
		t.Fatalf("second registration for the same name accepted")
	}
	if _, ok := reg.Get("quiz"); !ok {
		t.Fatalf("registered session not found")
	}

	reg.Remove("quiz")
	if _, ok := reg.Get("quiz"); ok {
		t.Fatalf("session still present after removal")
	}
	if !reg.Register("quiz", nil) {
		t.Fatalf("name not reusable after removal")
	}
}

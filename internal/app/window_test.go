package app_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"discord-quiz-bot/internal/app"
	"discord-quiz-bot/internal/domain"
)

func TestWindowFirstSubmissionWins(t *testing.T) {
	w := app.OpenWindow([]string{"red", "blue"}, 1)

	first, err := w.Submit("alice", 1)
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if !first.Correct {
		t.Fatalf("expected correct answer, got %+v", first)
	}

	if _, err := w.Submit("alice", 0); !errors.Is(err, domain.ErrDuplicateAnswer) {
		t.Fatalf("expected ErrDuplicateAnswer, got %v", err)
	}

	answers := w.Answers()
	if len(answers) != 1 || answers[0].OptionIndex != 1 {
		t.Fatalf("duplicate overwrote the recorded answer: %+v", answers)
	}
}

func TestWindowRejectsAfterClose(t *testing.T) {
	w := app.OpenWindow([]string{"a", "b"}, 0)
	w.Close()
	w.Close() // idempotent

	if _, err := w.Submit("alice", 0); !errors.Is(err, domain.ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
	if len(w.Answers()) != 0 {
		t.Fatalf("closed window recorded an answer")
	}
}

func TestWindowElapsedUsesClock(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	offset := time.Duration(0)
	clock := func() time.Time { return base.Add(offset) }

	w := app.NewWindowWithClock([]string{"a", "b"}, 0, clock)

	offset = 1500 * time.Millisecond
	a, err := w.Submit("alice", 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Elapsed != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s elapsed, got %v", a.Elapsed)
	}

	offset = 4 * time.Second
	b, err := w.Submit("bob", 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.Elapsed != 4*time.Second {
		t.Fatalf("expected 4s elapsed, got %v", b.Elapsed)
	}
	if b.Correct {
		t.Fatalf("wrong option marked correct")
	}
}

func TestWindowConcurrentDuplicates(t *testing.T) {
	w := app.OpenWindow([]string{"a", "b"}, 0)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Submit("alice", 0)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	accepted, duplicates := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domain.ErrDuplicateAnswer):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if accepted != 1 || duplicates != attempts-1 {
		t.Fatalf("expected exactly one accepted submission, got %d accepted / %d duplicates", accepted, duplicates)
	}
	if len(w.Answers()) != 1 {
		t.Fatalf("expected one recorded answer, got %d", len(w.Answers()))
	}
}

func TestWindowAnswersKeepSubmissionOrder(t *testing.T) {
	w := app.OpenWindow([]string{"a", "b"}, 0)
	for _, id := range []string{"carol", "alice", "bob"} {
		if _, err := w.Submit(id, 0); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}
	answers := w.Answers()
	want := []string{"carol", "alice", "bob"}
	for i, id := range want {
		if answers[i].UserID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, answers[i].UserID)
		}
	}
}

package app_test

import (
	"fmt"
	"testing"
	"time"

	"discord-quiz-bot/internal/app"
	"discord-quiz-bot/internal/domain"
)

func answer(userID string, correct bool, elapsed time.Duration) domain.Answer {
	return domain.Answer{UserID: userID, OptionIndex: 0, Correct: correct, Elapsed: elapsed}
}

func TestScoreRoundAwardLadder(t *testing.T) {
	// Twelve correct answers: ranks 1..10 earn 1000 down to 100, everyone
	// after that earns zero.
	answers := make([]domain.Answer, 0, 12)
	for i := 0; i < 12; i++ {
		answers = append(answers, answer(fmt.Sprintf("u%02d", i), true, time.Duration(i+1)*time.Second))
	}

	awards, fastest := app.ScoreRound(answers)

	for i := 0; i < 12; i++ {
		want := 1000 - i*100
		if want < 0 {
			want = 0
		}
		got := awards[fmt.Sprintf("u%02d", i)]
		if got != want {
			t.Fatalf("rank %d: expected %d points, got %d", i+1, want, got)
		}
	}
	if fastest == nil || fastest.UserID != "u00" || fastest.Elapsed != time.Second {
		t.Fatalf("unexpected fastest: %+v", fastest)
	}
}

func TestScoreRoundIgnoresWrongAnswers(t *testing.T) {
	awards, fastest := app.ScoreRound([]domain.Answer{
		answer("alice", false, 1*time.Second),
		answer("bob", true, 2*time.Second),
		answer("carol", false, 3*time.Second),
	})

	if len(awards) != 1 || awards["bob"] != 1000 {
		t.Fatalf("expected bob alone with 1000, got %v", awards)
	}
	if fastest == nil || fastest.UserID != "bob" {
		t.Fatalf("unexpected fastest: %+v", fastest)
	}
}

func TestScoreRoundNoCorrectAnswers(t *testing.T) {
	awards, fastest := app.ScoreRound([]domain.Answer{
		answer("alice", false, time.Second),
	})
	if len(awards) != 0 {
		t.Fatalf("expected no awards, got %v", awards)
	}
	if fastest != nil {
		t.Fatalf("expected no fastest, got %+v", fastest)
	}
}

func TestScoreRoundEqualTimesKeepSubmissionOrder(t *testing.T) {
	awards, fastest := app.ScoreRound([]domain.Answer{
		answer("bob", true, 2*time.Second),
		answer("alice", true, 2*time.Second),
	})
	if awards["bob"] != 1000 || awards["alice"] != 900 {
		t.Fatalf("tie should keep submission order, got %v", awards)
	}
	if fastest.UserID != "bob" {
		t.Fatalf("expected bob fastest, got %+v", fastest)
	}
}

func TestScoreRoundEmpty(t *testing.T) {
	awards, fastest := app.ScoreRound(nil)
	if len(awards) != 0 || fastest != nil {
		t.Fatalf("expected empty result, got %v / %+v", awards, fastest)
	}
}

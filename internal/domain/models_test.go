package domain

import (
	"errors"
	"testing"
)

func TestNewQuestionValidation(t *testing.T) {
	cases := []struct {
		name     string
		options  []string
		correct  int
		duration int
		wantErr  error
	}{
		{"valid", []string{"a", "b"}, 0, 20, nil},
		{"single option", []string{"a"}, 0, 5, nil},
		{"no options", nil, 0, 20, ErrNoOptions},
		{"correct too high", []string{"a", "b"}, 2, 20, ErrOptionIndex},
		{"correct negative", []string{"a", "b"}, -1, 20, ErrOptionIndex},
		{"zero duration", []string{"a", "b"}, 0, 0, ErrBadDuration},
		{"negative duration", []string{"a", "b"}, 0, -5, ErrBadDuration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NewQuestion("prompt", tc.options, tc.correct, tc.duration)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if err == nil && q.CorrectText() != tc.options[tc.correct] {
				t.Fatalf("correct text mismatch: %q", q.CorrectText())
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Shuffle {
		t.Fatalf("shuffle should default off")
	}
	if !s.AutoShowAnswer || !s.AutoShowFastest || !s.FeedbackCorrect || !s.FeedbackWrong {
		t.Fatalf("notice and feedback flags should default on: %+v", s)
	}
	if s.LeaderboardCount != 10 || !s.LeaderboardMention {
		t.Fatalf("unexpected leaderboard defaults: %+v", s)
	}
}

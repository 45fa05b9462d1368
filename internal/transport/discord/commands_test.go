package discord

import (
	"errors"
	"strings"
	"testing"

	"discord-quiz-bot/internal/domain"
)

func TestPopArgs(t *testing.T) {
	cases := []struct {
		in       string
		n        int
		wantArgs []string
		wantRest string
		wantOK   bool
	}{
		{"capitals 20 0 Question | A | B", 3, []string{"capitals", "20", "0"}, "Question | A | B", true},
		{"  capitals  ", 1, []string{"capitals"}, "", true},
		{"capitals", 2, nil, "", false},
		{"", 1, nil, "", false},
		{"a\tb  c", 2, []string{"a", "b"}, "c", true},
	}

	for _, tc := range cases {
		args, rest, ok := popArgs(tc.in, tc.n)
		if ok != tc.wantOK || rest != tc.wantRest {
			t.Fatalf("popArgs(%q, %d) = %v, %q, %v", tc.in, tc.n, args, rest, ok)
		}
		if len(args) != len(tc.wantArgs) {
			t.Fatalf("popArgs(%q, %d) args = %v", tc.in, tc.n, args)
		}
		for i := range args {
			if args[i] != tc.wantArgs[i] {
				t.Fatalf("popArgs(%q, %d) args = %v", tc.in, tc.n, args)
			}
		}
	}
}

func TestSplitQuestion(t *testing.T) {
	text, options, ok := splitQuestion("Capital of France? | Paris | Rome | ")
	if !ok || text != "Capital of France?" {
		t.Fatalf("unexpected parse: %q %v %v", text, options, ok)
	}
	if len(options) != 2 || options[0] != "Paris" || options[1] != "Rome" {
		t.Fatalf("unexpected options: %v", options)
	}

	if _, _, ok := splitQuestion("no options here"); ok {
		t.Fatalf("question without options accepted")
	}
	if _, _, ok := splitQuestion("question | | "); ok {
		t.Fatalf("blank options accepted")
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "on", "yes", "1", "shuffle"} {
		if !truthy(s, "shuffle") {
			t.Fatalf("%q should be truthy", s)
		}
	}
	for _, s := range []string{"false", "off", "no", "0", "default", ""} {
		if truthy(s, "shuffle") {
			t.Fatalf("%q should be falsy", s)
		}
	}
}

func TestParseAnswerID(t *testing.T) {
	quiz, option, ok := parseAnswerID("quizans:capitals:2")
	if !ok || quiz != "capitals" || option != 2 {
		t.Fatalf("unexpected parse: %q %d %v", quiz, option, ok)
	}

	// Quiz names may contain colons; the option index is taken from the end.
	quiz, option, ok = parseAnswerID("quizans:season:2024:0")
	if !ok || quiz != "season:2024" || option != 0 {
		t.Fatalf("unexpected parse: %q %d %v", quiz, option, ok)
	}

	for _, id := range []string{"other:capitals:2", "quizans:capitals", "quizans:capitals:x", ""} {
		if _, _, ok := parseAnswerID(id); ok {
			t.Fatalf("%q should not parse", id)
		}
	}
}

func TestAnswerButtonsRowLayout(t *testing.T) {
	rows := answerButtons("capitals", 7, false)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for 7 options, got %d", len(rows))
	}

	none := answerButtons("capitals", 0, false)
	if len(none) != 0 {
		t.Fatalf("expected no rows for 0 options, got %d", len(none))
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrQuizNotFound, "No quiz named"},
		{domain.ErrQuizExists, "already exists"},
		{domain.ErrQuizEmpty, "has no questions"},
		{domain.ErrQuizRunning, "currently running"},
		{domain.ErrSessionNotFound, "No active quiz"},
		{domain.ErrBadDuration, "positive number of seconds"},
		{errors.New("boom"), "Something went wrong"},
	}
	for _, tc := range cases {
		got := errorMessage("capitals", tc.err)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("errorMessage(%v) = %q, want substring %q", tc.err, got, tc.want)
		}
	}
}

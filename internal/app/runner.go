package app

import (
	"context"
	"fmt"
	"time"

	"discord-quiz-bot/internal/domain"
)

// run drives one quiz session from its first question to Completed or
// Stopped. It is the only goroutine touching the display port for this run;
// answer submissions arrive concurrently through the session's window.
func (s *QuizService) run(ctx context.Context, sess *Session, display DisplayPort) {
	defer s.sessions.Remove(sess.Quiz)

	log := s.log.With("quiz", sess.Quiz, "session", sess.ID)
	log.Info("quiz run started", "questions", len(sess.questions), "shuffle", sess.shuffle)

	for idx, q := range sess.questions {
		if sess.Stopped() || ctx.Err() != nil {
			break
		}

		options := q.Options
		correctIndex := q.CorrectIndex
		if sess.shuffle {
			options, correctIndex = shuffleOptions(sess.rnd, options, correctIndex)
		}

		window := sess.openRound(idx, options, correctIndex)

		view := RoundView{
			Quiz:      sess.Quiz,
			Number:    idx + 1,
			Total:     len(sess.questions),
			Text:      q.Text,
			Options:   options,
			Remaining: q.Duration,
		}
		handle, err := display.ShowQuestion(ctx, view)
		if err != nil {
			log.Warn("show question failed", "round", idx+1, "error", err)
			handle = nil
		}

		s.countdown(ctx, sess, display, handle, q.Duration)

		sess.closeRound()
		if handle != nil {
			if err := display.DisableInput(ctx, handle); err != nil {
				log.Warn("disable input failed", "round", idx+1, "error", err)
			}
		}

		awards, fastest := ScoreRound(window.Answers())
		sess.fold(idx, awards)

		s.mu.Lock()
		s.lastRounds[sess.Quiz] = domain.LastRound{
			CorrectAnswer: options[correctIndex],
			Options:       options,
			Fastest:       fastest,
		}
		s.mu.Unlock()

		s.report(ctx, sess, display, options[correctIndex], fastest)

		if idx < len(sess.questions)-1 && !sess.Stopped() {
			s.sleep(ctx, s.pause)
		}
	}

	stopped := sess.Stopped() || ctx.Err() != nil
	if stopped {
		s.post(ctx, display, fmt.Sprintf("Quiz **%s** was stopped.", sess.Quiz))
	}
	s.post(ctx, display, "Quiz completed. Thank you for participating!")

	lb := sess.finalize(stopped)

	s.mu.Lock()
	s.leaderboards[sess.Quiz] = lb
	s.participants[sess.Quiz] = sess.participantIDs()
	s.mu.Unlock()

	s.export(ctx, sess.Quiz, lb)
	log.Info("quiz run finished", "state", sess.State(), "participants", len(lb))
}

// countdown ticks once per remaining second, re-rendering the time left and
// checking the stop flag. Context cancellation counts as a stop request.
func (s *QuizService) countdown(ctx context.Context, sess *Session, display DisplayPort, handle DisplayHandle, seconds int) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for remaining := seconds; remaining > 0; remaining-- {
		if sess.Stopped() {
			return
		}
		if handle != nil {
			if err := display.UpdateCountdown(ctx, handle, remaining); err != nil {
				s.log.Warn("countdown update failed", "quiz", sess.Quiz, "error", err)
			}
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			sess.RequestStop()
			return
		}
	}
}

// report posts the round-end notices the quiz's settings ask for.
func (s *QuizService) report(ctx context.Context, sess *Session, display DisplayPort, correctAnswer string, fastest *domain.Fastest) {
	if sess.settings.AutoShowAnswer {
		s.post(ctx, display, fmt.Sprintf("Correct answer: **%s**", correctAnswer))
	}
	if sess.settings.AutoShowFastest {
		if fastest != nil {
			identity := s.identity.Resolve(fastest.UserID)
			s.post(ctx, display, fmt.Sprintf("Fastest correct answer: **%s** (%.2f sec)", identity.Name, fastest.Elapsed.Seconds()))
		} else {
			s.post(ctx, display, "No one answered correctly for this question.")
		}
	}
}

func (s *QuizService) post(ctx context.Context, display DisplayPort, text string) {
	if err := display.Post(ctx, text); err != nil {
		s.log.Warn("display post failed", "error", err)
	}
}

// export resolves display names and hands the ordered result rows to every
// configured exporter. Export failures are logged, never fatal.
func (s *QuizService) export(ctx context.Context, quiz string, lb domain.Leaderboard) {
	if len(s.exporters) == 0 || len(lb) == 0 {
		return
	}

	entries := Top(lb, len(lb))
	rows := make([]domain.ResultRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.ResultRow{
			UserID:      e.UserID,
			DisplayName: s.identity.Resolve(e.UserID).Name,
			Score:       e.Score,
		})
	}

	for _, exporter := range s.exporters {
		if err := exporter.Publish(ctx, quiz, rows); err != nil {
			s.log.Error("results export failed", "quiz", quiz, "error", err)
		}
	}
}

func (s *QuizService) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

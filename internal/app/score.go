package app

import (
	"sort"

	"discord-quiz-bot/internal/domain"
)

const (
	baseAward = 1000
	awardStep = 100
)

// ScoreRound converts a closed window's answers into per-participant awards.
// Correct answers are ranked by ascending elapsed time; equal times keep
// their submission order. Rank n earns max(0, 1000 - 100*(n-1)). Wrong
// answers earn nothing here; zero-fill happens at finalization.
//
// The second return value is the fastest correct answer, or nil if no one
// answered correctly.
func ScoreRound(answers []domain.Answer) (map[string]int, *domain.Fastest) {
	correct := make([]domain.Answer, 0, len(answers))
	for _, a := range answers {
		if a.Correct {
			correct = append(correct, a)
		}
	}
	sort.SliceStable(correct, func(i, j int) bool {
		return correct[i].Elapsed < correct[j].Elapsed
	})

	awards := make(map[string]int, len(correct))
	for rank, a := range correct {
		award := baseAward - rank*awardStep
		if award < 0 {
			award = 0
		}
		awards[a.UserID] = award
	}

	if len(correct) == 0 {
		return awards, nil
	}
	return awards, &domain.Fastest{
		UserID:  correct[0].UserID,
		Elapsed: correct[0].Elapsed,
	}
}

package app

import (
	"sort"

	"discord-quiz-bot/internal/domain"
)

// Fold adds one round's awards into the running totals. Missing entries
// start at zero.
func Fold(totals map[string]int, awards map[string]int) {
	for userID, award := range awards {
		totals[userID] += award
	}
}

// Finalize produces the leaderboard for a completed run. Every participant
// who submitted anything appears, zero-filled if they never scored.
func Finalize(totals map[string]int, participants map[string]struct{}) domain.Leaderboard {
	lb := make(domain.Leaderboard, len(totals))
	for userID, score := range totals {
		lb[userID] = score
	}
	for userID := range participants {
		if _, ok := lb[userID]; !ok {
			lb[userID] = 0
		}
	}
	return lb
}

// Top returns up to count entries ordered by score descending. Equal scores
// are ordered by user ID ascending so the view is deterministic.
func Top(lb domain.Leaderboard, count int) []domain.RankedEntry {
	entries := make([]domain.RankedEntry, 0, len(lb))
	for userID, score := range lb {
		entries = append(entries, domain.RankedEntry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	if count >= 0 && count < len(entries) {
		entries = entries[:count]
	}
	return entries
}

package app

import (
	"math/rand"
	"slices"
	"testing"
)

func TestShuffleOptionsKeepsCorrectText(t *testing.T) {
	options := []string{"Mercury", "Venus", "Earth", "Mars", "Jupiter"}

	for seed := int64(0); seed < 50; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		shuffled, correct := shuffleOptions(rnd, options, 2)

		if correct < 0 || correct >= len(shuffled) {
			t.Fatalf("seed %d: correct index out of range: %d", seed, correct)
		}
		if shuffled[correct] != "Earth" {
			t.Fatalf("seed %d: correct option changed to %q", seed, shuffled[correct])
		}
		if len(shuffled) != len(options) {
			t.Fatalf("seed %d: option count changed: %v", seed, shuffled)
		}
		for _, opt := range options {
			if !slices.Contains(shuffled, opt) {
				t.Fatalf("seed %d: option %q lost in shuffle", seed, opt)
			}
		}
	}
}

func TestShuffleOptionsLeavesInputUntouched(t *testing.T) {
	options := []string{"a", "b", "c", "d"}
	before := slices.Clone(options)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffleOptions(rnd, options, 0)
	}
	if !slices.Equal(options, before) {
		t.Fatalf("shuffle mutated the source slice: %v", options)
	}
}

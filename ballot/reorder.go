// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"math/rand/v2"
	"slices"

	"github.com/aspc/vote/models"
)

// Reorder moves dragged to sit immediately before target and returns the new
// order. The input is not modified. It is a no-op (returning a copy) when the
// ids are equal or either id is missing, so repeated hovers over the same
// target settle on the same order.
func Reorder(ids []string, dragged, target string) []string {
	out := slices.Clone(ids)
	if dragged == target {
		return out
	}

	from := slices.Index(out, dragged)
	if from == -1 || !slices.Contains(out, target) {
		return out
	}

	out = slices.Delete(out, from, from+1)
	to := slices.Index(out, target)
	return slices.Insert(out, to, dragged)
}

// Shuffle returns a shuffled copy of candidates. A nil rng uses the global
// source.
func Shuffle(candidates []models.Candidate, rng *rand.Rand) []models.Candidate {
	out := slices.Clone(candidates)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		rand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// GroupByPosition partitions candidates by position, keeping input order
// within each position
func GroupByPosition(candidates []models.Candidate) map[string][]models.Candidate {
	grouped := make(map[string][]models.Candidate)
	for _, c := range candidates {
		grouped[c.Position] = append(grouped[c.Position], c)
	}
	return grouped
}

func ids(candidates []models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

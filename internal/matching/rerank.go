package matching

import (
	"math"

	"github.com/ajisaka/devmatch/internal/entity"
)

// Rerank applies greedy Maximal Marginal Relevance to a score-descending
// result list and returns min(k, len(results)) entries in selection order.
// Relevance is the final compatibility score; redundancy is the maximum
// Jaccard similarity between the candidate's matching traits and those of
// every already-selected result, scaled to the same 0-100 range. Ties keep
// the earlier candidate, so the output is stable for equal mmr scores.
func Rerank(results []entity.MatchResult, k int, lambda float64) []entity.MatchResult {
	if k <= 0 || len(results) == 0 {
		return []entity.MatchResult{}
	}
	if k > len(results) {
		k = len(results)
	}
	if lambda < 0 {
		lambda = 0
	} else if lambda > 1 {
		lambda = 1
	}

	selected := make([]entity.MatchResult, 0, k)
	remaining := make([]entity.MatchResult, len(results))
	copy(remaining, results)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			relevance := float64(cand.Score)

			redundancy := 0.0
			for _, sel := range selected {
				if sim := traitJaccard(cand.MatchingTraits, sel.MatchingTraits); sim > redundancy {
					redundancy = sim
				}
			}

			mmrScore := lambda*relevance - (1-lambda)*(redundancy*100)
			if mmrScore > bestScore {
				bestScore = mmrScore
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// traitJaccard is set intersection over union of the two trait lists; an
// empty union counts as zero similarity.
func traitJaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

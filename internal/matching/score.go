// Package matching holds the pure compatibility-scoring engine and the
// diversity reranker. Nothing in here touches storage; callers feed profiles
// in and get MatchResults out, so the whole package is deterministic under a
// pinned MatchWeights config.
package matching

import (
	"fmt"
	"math"

	"github.com/ajisaka/devmatch/internal/config"
	"github.com/ajisaka/devmatch/internal/entity"
)

type Engine struct {
	weights     config.MatchWeights
	closeGroups []map[string]struct{}
}

func NewEngine(weights config.MatchWeights) *Engine {
	groups := make([]map[string]struct{}, 0, len(weights.CloseAnswerGroups))
	for _, group := range weights.CloseAnswerGroups {
		set := make(map[string]struct{}, len(group))
		for _, choice := range group {
			set[choice] = struct{}{}
		}
		groups = append(groups, set)
	}
	return &Engine{weights: weights, closeGroups: groups}
}

func (e *Engine) Weights() config.MatchWeights {
	return e.weights
}

// Score computes the normalized compatibility of candidate for requester.
// Quiz and meme sub-scores are symmetric under swapping the two profiles;
// the provider bonus is not, since it reads the requester's preferences
// against the candidate's identity source. Missing inputs degrade the
// affected sub-score to zero instead of failing the computation.
func (e *Engine) Score(requester, candidate *entity.Profile) entity.MatchResult {
	result := entity.MatchResult{Profile: candidate}

	result.QuizPercent = e.quizPercent(requester.QuizAnswers, candidate.QuizAnswers)
	if result.QuizPercent > 0 {
		if result.QuizPercent >= e.weights.QuizHighMatchThreshold {
			result.MatchingTraits = append(result.MatchingTraits,
				fmt.Sprintf("High quiz match (%d%%)", result.QuizPercent))
		} else {
			result.MatchingTraits = append(result.MatchingTraits,
				fmt.Sprintf("Quiz overlap (+%d%%)", result.QuizPercent))
		}
	}

	result.MemeMatches, result.MemePercent = e.memePercent(requester.MemeReactions, candidate.MemeReactions)
	if result.MemePercent > 0 {
		result.MatchingTraits = append(result.MatchingTraits,
			fmt.Sprintf("%d similar meme reactions (+%d%%)", result.MemeMatches, result.MemePercent))
	}

	if len(requester.MemeReactions) > 0 && len(candidate.MemeReactions) > 0 {
		result.EngagementBonus = e.weights.EngagementBonus
		result.MatchingTraits = append(result.MatchingTraits, "Both engaged with memes")
	}

	dnaPercent := DevDnaSimilarityPercent(requester.DevDna, candidate.DevDna)
	result.DevDnaContribution = int(math.Round(float64(dnaPercent) / 100 * e.weights.DevDnaWeight))
	if result.DevDnaContribution > 0 {
		result.MatchingTraits = append(result.MatchingTraits,
			fmt.Sprintf("DevDNA similarity (+%d%%)", result.DevDnaContribution))
	}

	for _, affinity := range e.weights.ProviderAffinities {
		answer, ok := requester.QuizAnswers[affinity.QuestionID]
		if !ok || answer.Type == entity.AnswerSlider {
			continue
		}
		if answer.Choice == affinity.Choice && candidate.Provider == affinity.Provider {
			result.ProviderBonus += e.weights.ProviderBonus
			result.MatchingTraits = append(result.MatchingTraits, affinity.Reason)
		}
	}

	total := result.QuizPercent + result.MemePercent + result.EngagementBonus +
		result.DevDnaContribution + result.ProviderBonus
	result.Score = clamp(total, 0, 100)
	result.Compatibility = compatibilityTier(result.Score)

	return result
}

// quizPercent sums weighted credit over questions answered by both sides,
// then caps and scales the raw sum into [0,100].
func (e *Engine) quizPercent(a, b entity.QuizAnswers) int {
	raw := 0
	for questionID, answerA := range a {
		answerB, ok := b[questionID]
		if !ok {
			continue
		}
		weight := e.weights.QuestionWeight(questionID)

		switch {
		case answerA.Equal(answerB):
			raw += int(math.Round(float64(e.weights.ExactCredit) * weight))
		case e.answersClose(answerA, answerB):
			raw += int(math.Round(float64(e.weights.CloseCredit) * weight))
		default:
			// Dissimilar answers still earn a small diversity credit so the
			// score never becomes zero-sum.
			raw += int(math.Round(float64(e.weights.DiversityCredit) * weight))
		}
	}

	if raw > e.weights.QuizRawCap {
		raw = e.weights.QuizRawCap
	}
	return int(math.Round(float64(raw) * 100 / float64(e.weights.QuizRawCap)))
}

// answersClose reports semantic closeness: slider answers within tolerance,
// card/toggle answers sharing a configured close-answer group.
func (e *Engine) answersClose(a, b entity.QuizAnswer) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == entity.AnswerSlider {
		diff := a.Level - b.Level
		if diff < 0 {
			diff = -diff
		}
		return diff <= e.weights.SliderCloseTolerance
	}
	for _, group := range e.closeGroups {
		if _, okA := group[a.Choice]; !okA {
			continue
		}
		if _, okB := group[b.Choice]; okB {
			return true
		}
	}
	return false
}

// memePercent counts identical (memeId, reaction) pairs on both sides and
// converts the count into a capped percentage.
func (e *Engine) memePercent(a, b entity.MemeReactions) (matches, percent int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}

	seen := make(map[entity.MemeReaction]struct{}, len(a))
	for _, r := range a {
		seen[r] = struct{}{}
	}
	counted := make(map[entity.MemeReaction]struct{}, len(b))
	for _, r := range b {
		if _, ok := seen[r]; !ok {
			continue
		}
		if _, dup := counted[r]; dup {
			continue
		}
		counted[r] = struct{}{}
		matches++
	}

	percent = matches * e.weights.MemePercentPerMatch
	if percent > e.weights.MemePercentCap {
		percent = e.weights.MemePercentCap
	}
	return matches, percent
}

// DevDnaSimilarityPercent is the cosine similarity of the two language-usage
// vectors over the union of language names, clamped to [0,1] and expressed
// as a percentage. Either empty vector yields 0.
func DevDnaSimilarityPercent(a, b entity.DevDna) int {
	if len(a.TopLanguages) == 0 || len(b.TopLanguages) == 0 {
		return 0
	}

	valuesA := make(map[string]float64, len(a.TopLanguages))
	for _, share := range a.TopLanguages {
		valuesA[share.Lang] += share.Value
	}
	valuesB := make(map[string]float64, len(b.TopLanguages))
	for _, share := range b.TopLanguages {
		valuesB[share.Lang] += share.Value
	}

	var dot, normA, normB float64
	for lang, v := range valuesA {
		dot += v * valuesB[lang]
		normA += v * v
	}
	for _, v := range valuesB {
		normB += v * v
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(cosine) {
		cosine = 0
	}
	if cosine < 0 {
		cosine = 0
	} else if cosine > 1 {
		cosine = 1
	}
	return int(math.Round(cosine * 100))
}

func compatibilityTier(score int) entity.Compatibility {
	switch {
	case score >= 80:
		return entity.CompatibilityHigh
	case score >= 50:
		return entity.CompatibilityMedium
	default:
		return entity.CompatibilityLow
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

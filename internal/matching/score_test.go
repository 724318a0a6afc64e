package matching_test

import (
	"testing"

	"github.com/ajisaka/devmatch/internal/config"
	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *matching.Engine {
	t.Helper()
	return matching.NewEngine(config.DefaultMatchWeights())
}

func TestQuizScoringScenario(t *testing.T) {
	engine := newEngine(t)

	requester := &entity.Profile{
		ID: 1,
		QuizAnswers: entity.QuizAnswers{
			1: entity.CardAnswer("Night"),
			2: entity.CardAnswer("Default Bash"),
		},
	}
	candidate := &entity.Profile{
		ID: 2,
		QuizAnswers: entity.QuizAnswers{
			1: entity.CardAnswer("Night"),
			2: entity.CardAnswer("Modern GUI terminal"),
		},
	}

	result := engine.Score(requester, candidate)

	// Q1 exact: round(40*1.0) = 40. Q2 unrelated: round(5*0.8) = 4.
	// Raw 44 against a cap of 100 reports 44%.
	assert.Equal(t, 44, result.QuizPercent)
	assert.Equal(t, 0, result.MemePercent)
	assert.Equal(t, 0, result.EngagementBonus)
	assert.Equal(t, 0, result.DevDnaContribution)
	assert.Equal(t, 0, result.ProviderBonus)
	assert.Equal(t, 44, result.Score)
	assert.Equal(t, entity.CompatibilityLow, result.Compatibility)

	require.Len(t, result.MatchingTraits, 1)
	assert.Equal(t, "High quiz match (44%)", result.MatchingTraits[0])
}

func TestQuizCloseAnswerCredit(t *testing.T) {
	engine := newEngine(t)

	requester := &entity.Profile{
		ID:          1,
		QuizAnswers: entity.QuizAnswers{1: entity.CardAnswer("Morning")},
	}
	candidate := &entity.Profile{
		ID:          2,
		QuizAnswers: entity.QuizAnswers{1: entity.CardAnswer("Flexible")},
	}

	result := engine.Score(requester, candidate)

	// Morning/Flexible share a close-answer group: round(25*1.0) = 25.
	assert.Equal(t, 25, result.QuizPercent)
}

func TestSliderAnswersCloseWithinTolerance(t *testing.T) {
	engine := newEngine(t)

	near := engine.Score(
		&entity.Profile{ID: 1, QuizAnswers: entity.QuizAnswers{3: entity.SliderAnswer(40)}},
		&entity.Profile{ID: 2, QuizAnswers: entity.QuizAnswers{3: entity.SliderAnswer(60)}},
	)
	far := engine.Score(
		&entity.Profile{ID: 1, QuizAnswers: entity.QuizAnswers{3: entity.SliderAnswer(0)}},
		&entity.Profile{ID: 2, QuizAnswers: entity.QuizAnswers{3: entity.SliderAnswer(100)}},
	)

	// |40-60| <= 25 earns close credit round(25*0.5) = 13; |0-100| earns the
	// diversity credit round(5*0.5) = 3.
	assert.Equal(t, 13, near.QuizPercent)
	assert.Equal(t, 3, far.QuizPercent)
}

func TestQuizAndMemeSubScoresAreSymmetric(t *testing.T) {
	engine := newEngine(t)

	a := &entity.Profile{
		ID: 1,
		QuizAnswers: entity.QuizAnswers{
			1: entity.CardAnswer("Night"),
			4: entity.CardAnswer("Tabs"),
			7: entity.CardAnswer("Dark"),
		},
		MemeReactions: entity.MemeReactions{
			{MemeID: "m1", Reaction: "😂"},
			{MemeID: "m2", Reaction: "💯"},
		},
	}
	b := &entity.Profile{
		ID: 2,
		QuizAnswers: entity.QuizAnswers{
			1: entity.CardAnswer("Morning"),
			4: entity.CardAnswer("Tabs"),
			7: entity.CardAnswer("Light"),
		},
		MemeReactions: entity.MemeReactions{
			{MemeID: "m1", Reaction: "😂"},
			{MemeID: "m2", Reaction: "😭"},
		},
	}

	ab := engine.Score(a, b)
	ba := engine.Score(b, a)

	assert.Equal(t, ab.QuizPercent, ba.QuizPercent)
	assert.Equal(t, ab.MemePercent, ba.MemePercent)
	assert.Equal(t, ab.EngagementBonus, ba.EngagementBonus)
	assert.Equal(t, ab.DevDnaContribution, ba.DevDnaContribution)
}

func TestMemeOverlapCountAndCap(t *testing.T) {
	engine := newEngine(t)

	shared := entity.MemeReactions{
		{MemeID: "m1", Reaction: "😂"},
		{MemeID: "m2", Reaction: "😂"},
		{MemeID: "m3", Reaction: "💯"},
	}
	a := &entity.Profile{ID: 1, MemeReactions: shared}
	b := &entity.Profile{ID: 2, MemeReactions: shared}

	result := engine.Score(a, b)
	assert.Equal(t, 3, result.MemeMatches)
	assert.Equal(t, 30, result.MemePercent)
	assert.Equal(t, 10, result.EngagementBonus)

	// Six identical pairs cap at 50 percent.
	many := entity.MemeReactions{}
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6"} {
		many = append(many, entity.MemeReaction{MemeID: id, Reaction: "😂"})
	}
	capped := engine.Score(
		&entity.Profile{ID: 1, MemeReactions: many},
		&entity.Profile{ID: 2, MemeReactions: many},
	)
	assert.Equal(t, 6, capped.MemeMatches)
	assert.Equal(t, 50, capped.MemePercent)
}

func TestDifferentReactionToSameMemeDoesNotCount(t *testing.T) {
	engine := newEngine(t)

	result := engine.Score(
		&entity.Profile{ID: 1, MemeReactions: entity.MemeReactions{{MemeID: "m1", Reaction: "😂"}}},
		&entity.Profile{ID: 2, MemeReactions: entity.MemeReactions{{MemeID: "m1", Reaction: "😭"}}},
	)

	assert.Equal(t, 0, result.MemePercent)
	// Both sides reacted to something, so engagement still pays out.
	assert.Equal(t, 10, result.EngagementBonus)
}

func TestDevDnaScenario(t *testing.T) {
	a := entity.DevDna{TopLanguages: []entity.LanguageShare{
		{Lang: "JavaScript", Value: 60},
		{Lang: "Python", Value: 40},
	}}
	b := entity.DevDna{TopLanguages: []entity.LanguageShare{
		{Lang: "JavaScript", Value: 50},
		{Lang: "Go", Value: 50},
	}}

	// dot=3000, |A|=sqrt(5200), |B|=sqrt(5000), cosine ~ 0.588 -> 59%.
	assert.Equal(t, 59, matching.DevDnaSimilarityPercent(a, b))

	engine := newEngine(t)
	result := engine.Score(&entity.Profile{ID: 1, DevDna: a}, &entity.Profile{ID: 2, DevDna: b})
	assert.Equal(t, 6, result.DevDnaContribution)
}

func TestDevDnaSymmetricAndScaleInvariant(t *testing.T) {
	a := entity.DevDna{TopLanguages: []entity.LanguageShare{
		{Lang: "Rust", Value: 30},
		{Lang: "Go", Value: 70},
	}}
	b := entity.DevDna{TopLanguages: []entity.LanguageShare{
		{Lang: "Go", Value: 55},
		{Lang: "Python", Value: 45},
	}}

	assert.Equal(t, matching.DevDnaSimilarityPercent(a, b), matching.DevDnaSimilarityPercent(b, a))

	scaled := entity.DevDna{TopLanguages: []entity.LanguageShare{
		{Lang: "Rust", Value: 300},
		{Lang: "Go", Value: 700},
	}}
	assert.Equal(t, matching.DevDnaSimilarityPercent(a, b), matching.DevDnaSimilarityPercent(scaled, b))
}

func TestDevDnaEmptyVectorYieldsZero(t *testing.T) {
	full := entity.DevDna{TopLanguages: []entity.LanguageShare{{Lang: "Go", Value: 100}}}

	assert.Equal(t, 0, matching.DevDnaSimilarityPercent(entity.DevDna{}, full))
	assert.Equal(t, 0, matching.DevDnaSimilarityPercent(full, entity.DevDna{}))
	zeroed := entity.DevDna{TopLanguages: []entity.LanguageShare{{Lang: "Go", Value: 0}}}
	assert.Equal(t, 0, matching.DevDnaSimilarityPercent(zeroed, full))
}

func TestProviderBonusIsDirectional(t *testing.T) {
	engine := newEngine(t)

	requester := &entity.Profile{
		ID:          1,
		Provider:    entity.ProviderGoogle,
		QuizAnswers: entity.QuizAnswers{5: entity.CardAnswer("GitHub Issues")},
	}
	candidate := &entity.Profile{
		ID:          2,
		Provider:    entity.ProviderGithub,
		QuizAnswers: entity.QuizAnswers{5: entity.CardAnswer("GitHub Issues")},
	}

	forward := engine.Score(requester, candidate)
	assert.Equal(t, 15, forward.ProviderBonus)
	assert.Contains(t, forward.MatchingTraits, "Both value version control")

	// The reverse direction checks the candidate's provider (google), so no
	// bonus applies even though the quiz answers are identical.
	reverse := engine.Score(candidate, requester)
	assert.Equal(t, 0, reverse.ProviderBonus)
}

func TestScoreClampedToHundred(t *testing.T) {
	engine := newEngine(t)

	answers := entity.QuizAnswers{}
	for id := 1; id <= 10; id++ {
		answers[id] = entity.CardAnswer("GitHub Issues")
	}
	reactions := entity.MemeReactions{}
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6"} {
		reactions = append(reactions, entity.MemeReaction{MemeID: id, Reaction: "😂"})
	}
	dna := entity.DevDna{TopLanguages: []entity.LanguageShare{{Lang: "Go", Value: 100}}}

	a := &entity.Profile{ID: 1, Provider: entity.ProviderGithub, QuizAnswers: answers, MemeReactions: reactions, DevDna: dna}
	b := &entity.Profile{ID: 2, Provider: entity.ProviderGithub, QuizAnswers: answers, MemeReactions: reactions, DevDna: dna}

	result := engine.Score(a, b)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, entity.CompatibilityHigh, result.Compatibility)
}

func TestEmptyInputsDegradeGracefully(t *testing.T) {
	engine := newEngine(t)

	result := engine.Score(&entity.Profile{ID: 1}, &entity.Profile{ID: 2})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, entity.CompatibilityLow, result.Compatibility)
	assert.Empty(t, result.MatchingTraits)
}

func TestReasonsFollowSubScoreOrder(t *testing.T) {
	engine := newEngine(t)

	reactions := entity.MemeReactions{{MemeID: "m1", Reaction: "😂"}}
	a := &entity.Profile{
		ID:            1,
		QuizAnswers:   entity.QuizAnswers{1: entity.CardAnswer("Night"), 5: entity.CardAnswer("GitHub Issues")},
		MemeReactions: reactions,
		DevDna:        entity.DevDna{TopLanguages: []entity.LanguageShare{{Lang: "Go", Value: 100}}},
	}
	b := &entity.Profile{
		ID:            2,
		Provider:      entity.ProviderGithub,
		QuizAnswers:   entity.QuizAnswers{1: entity.CardAnswer("Night"), 5: entity.CardAnswer("Kanban board")},
		MemeReactions: reactions,
		DevDna:        entity.DevDna{TopLanguages: []entity.LanguageShare{{Lang: "Go", Value: 100}}},
	}

	result := engine.Score(a, b)

	require.Len(t, result.MatchingTraits, 5)
	assert.Contains(t, result.MatchingTraits[0], "quiz")
	assert.Contains(t, result.MatchingTraits[1], "meme reactions")
	assert.Equal(t, "Both engaged with memes", result.MatchingTraits[2])
	assert.Contains(t, result.MatchingTraits[3], "DevDNA")
	assert.Equal(t, "Both value version control", result.MatchingTraits[4])
}

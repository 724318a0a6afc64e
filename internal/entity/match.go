package entity

type Compatibility string

const (
	CompatibilityLow    Compatibility = "low"
	CompatibilityMedium Compatibility = "medium"
	CompatibilityHigh   Compatibility = "high"
)

// MatchResult is computed on demand and never persisted.
type MatchResult struct {
	Profile *Profile `json:"user"`

	QuizPercent        int `json:"quizPercent"`
	MemePercent        int `json:"memePercent"`
	MemeMatches        int `json:"memeMatches"`
	EngagementBonus    int `json:"engagementBonus"`
	DevDnaContribution int `json:"devDnaContribution"`
	ProviderBonus      int `json:"providerBonus"`

	Score          int           `json:"similarityScore"`
	MatchingTraits []string      `json:"matchingTraits"`
	Compatibility  Compatibility `json:"compatibility"`
}

// CandidateTier orders the retrieval fallback: fully onboarded profiles
// first, partially onboarded next, then anyone at all.
type CandidateTier int

const (
	TierComplete CandidateTier = iota + 1
	TierPartial
	TierAny
)

func (t CandidateTier) String() string {
	switch t {
	case TierComplete:
		return "complete"
	case TierPartial:
		return "partial"
	case TierAny:
		return "any"
	default:
		return "unknown"
	}
}

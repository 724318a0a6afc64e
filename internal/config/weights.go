package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ajisaka/devmatch/internal/entity"
)

// ProviderAffinity awards a flat bonus when the candidate's identity source
// matches a preference signalled by one of the requester's quiz answers.
type ProviderAffinity struct {
	QuestionID int             `json:"questionId"`
	Choice     string          `json:"choice"`
	Provider   entity.Provider `json:"provider"`
	Reason     string          `json:"reason"`
}

// MatchWeights is the full, versioned scoring configuration. Everything the
// scoring engine and reranker tune on lives here so unit tests can pin an
// exact config and deployments can override it from a JSON file.
type MatchWeights struct {
	Version int `json:"version"`

	QuestionWeights       map[int]float64 `json:"questionWeights"`
	DefaultQuestionWeight float64         `json:"defaultQuestionWeight"`

	ExactCredit     int `json:"exactCredit"`
	CloseCredit     int `json:"closeCredit"`
	DiversityCredit int `json:"diversityCredit"`

	// QuizRawCap caps the summed weighted credit before scaling it to a
	// percentage: quizPercent = round(100 * min(raw, cap) / cap).
	QuizRawCap             int `json:"quizRawCap"`
	QuizHighMatchThreshold int `json:"quizHighMatchThreshold"`

	// SliderCloseTolerance is the max level distance for two slider answers
	// to still count as semantically close.
	SliderCloseTolerance int `json:"sliderCloseTolerance"`

	// CloseAnswerGroups lists sets of card/toggle choices that are mutually
	// compatible; any two distinct members of a group score close credit.
	CloseAnswerGroups [][]string `json:"closeAnswerGroups"`

	MemePercentPerMatch int `json:"memePercentPerMatch"`
	MemePercentCap      int `json:"memePercentCap"`
	EngagementBonus     int `json:"engagementBonus"`

	ProviderBonus      int                `json:"providerBonus"`
	ProviderAffinities []ProviderAffinity `json:"providerAffinities"`

	// DevDnaWeight is the max contribution, in score points, of dev-DNA
	// cosine similarity.
	DevDnaWeight float64 `json:"devDnaWeight"`

	MMRLambda float64 `json:"mmrLambda"`
}

func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		Version: 1,
		QuestionWeights: map[int]float64{
			1:  1.0, // work schedule
			2:  0.8, // terminal style
			3:  0.5, // debugging stress slider
			4:  0.6, // tabs vs spaces
			5:  0.9, // project management style
			6:  0.6, // state management
			7:  0.5, // theme preference
			8:  0.6, // naming convention
			9:  0.4, // documentation slider
			10: 0.7, // work environment
		},
		DefaultQuestionWeight:  0.5,
		ExactCredit:            40,
		CloseCredit:            25,
		DiversityCredit:        5,
		QuizRawCap:             100,
		QuizHighMatchThreshold: 30,
		SliderCloseTolerance:   25,
		CloseAnswerGroups: [][]string{
			{"Morning", "Flexible"},
			{"Night", "Flexible"},
			{"Customized Zsh/Fish", "Modern GUI terminal"},
			{"GitHub Issues", "Documentation-first"},
			{"Tabs", "Spaces"},
			{"Light", "Dark"},
			{"Single laptop", "Coffee shop/Co-working"},
		},
		MemePercentPerMatch: 10,
		MemePercentCap:      50,
		EngagementBonus:     10,
		ProviderBonus:       15,
		ProviderAffinities: []ProviderAffinity{
			{QuestionID: 5, Choice: "GitHub Issues", Provider: entity.ProviderGithub, Reason: "Both value version control"},
			{QuestionID: 10, Choice: "Coffee shop/Co-working", Provider: entity.ProviderLinkedin, Reason: "Both appreciate networking"},
		},
		DevDnaWeight: 10,
		MMRLambda:    0.7,
	}
}

// LoadMatchWeights overlays a JSON weights file on top of the defaults. An
// empty path returns the defaults unchanged.
func LoadMatchWeights(filePath string) (MatchWeights, error) {
	weights := DefaultMatchWeights()
	if filePath == "" {
		return weights, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return weights, fmt.Errorf("read match weights: %w", err)
	}
	if err := json.Unmarshal(data, &weights); err != nil {
		return weights, fmt.Errorf("parse match weights: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return weights, err
	}
	return weights, nil
}

func (w MatchWeights) Validate() error {
	if w.MMRLambda < 0 || w.MMRLambda > 1 {
		return fmt.Errorf("match weights: mmr lambda %v out of [0,1]", w.MMRLambda)
	}
	if w.QuizRawCap <= 0 {
		return fmt.Errorf("match weights: quiz raw cap must be positive")
	}
	if w.DefaultQuestionWeight <= 0 || w.DefaultQuestionWeight > 1 {
		return fmt.Errorf("match weights: default question weight %v out of (0,1]", w.DefaultQuestionWeight)
	}
	for id, weight := range w.QuestionWeights {
		if weight <= 0 || weight > 1 {
			return fmt.Errorf("match weights: question %d weight %v out of (0,1]", id, weight)
		}
	}
	return nil
}

// QuestionWeight resolves the importance weight for a question id, falling
// back to the default for unlisted ids.
func (w MatchWeights) QuestionWeight(questionID int) float64 {
	if weight, ok := w.QuestionWeights[questionID]; ok {
		return weight
	}
	return w.DefaultQuestionWeight
}

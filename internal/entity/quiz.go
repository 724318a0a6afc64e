package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

type AnswerType string

const (
	AnswerCard   AnswerType = "card"
	AnswerToggle AnswerType = "toggle"
	AnswerSlider AnswerType = "slider"
)

// QuizAnswer is a tagged union keyed by question type. Card and toggle
// answers carry a choice string, slider answers carry a level in [0,100].
// Malformed payloads are rejected when decoded, not silently defaulted.
type QuizAnswer struct {
	Type   AnswerType `json:"type"`
	Choice string     `json:"choice,omitempty"`
	Level  int        `json:"level,omitempty"`
}

func CardAnswer(choice string) QuizAnswer {
	return QuizAnswer{Type: AnswerCard, Choice: choice}
}

func ToggleAnswer(choice string) QuizAnswer {
	return QuizAnswer{Type: AnswerToggle, Choice: choice}
}

func SliderAnswer(level int) QuizAnswer {
	return QuizAnswer{Type: AnswerSlider, Level: level}
}

func (a QuizAnswer) Validate() error {
	switch a.Type {
	case AnswerCard, AnswerToggle:
		if a.Choice == "" {
			return fmt.Errorf("quiz answer: %s answer requires a choice", a.Type)
		}
		if a.Level != 0 {
			return fmt.Errorf("quiz answer: %s answer cannot carry a level", a.Type)
		}
	case AnswerSlider:
		if a.Choice != "" {
			return fmt.Errorf("quiz answer: slider answer cannot carry a choice")
		}
		if a.Level < 0 || a.Level > 100 {
			return fmt.Errorf("quiz answer: slider level %d out of range [0,100]", a.Level)
		}
	default:
		return fmt.Errorf("quiz answer: unknown type %q", a.Type)
	}
	return nil
}

func (a *QuizAnswer) UnmarshalJSON(data []byte) error {
	type plain QuizAnswer
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = QuizAnswer(raw)
	return a.Validate()
}

// Equal is exact-match equality for scoring: same variant, same payload.
func (a QuizAnswer) Equal(b QuizAnswer) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == AnswerSlider {
		return a.Level == b.Level
	}
	return a.Choice == b.Choice
}

// QuizAnswers is sparse: only answered question ids appear as keys.
type QuizAnswers map[int]QuizAnswer

func (q QuizAnswers) Merge(incoming QuizAnswers) QuizAnswers {
	merged := make(QuizAnswers, len(q)+len(incoming))
	for id, a := range q {
		merged[id] = a
	}
	for id, a := range incoming {
		merged[id] = a
	}
	return merged
}

func (q QuizAnswers) Value() (driver.Value, error) {
	if q == nil {
		q = QuizAnswers{}
	}
	return json.Marshal(q)
}

func (q *QuizAnswers) Scan(src interface{}) error {
	return scanJSON(src, q)
}

// JSON object keys are strings; map them back to question ids and reject
// non-numeric or non-positive keys at the boundary.
func (q *QuizAnswers) UnmarshalJSON(data []byte) error {
	var raw map[string]QuizAnswer
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(QuizAnswers, len(raw))
	for key, a := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 {
			return fmt.Errorf("quiz answers: invalid question id %q", key)
		}
		out[id] = a
	}
	*q = out
	return nil
}

func (q QuizAnswers) MarshalJSON() ([]byte, error) {
	raw := make(map[string]QuizAnswer, len(q))
	for id, a := range q {
		raw[strconv.Itoa(id)] = a
	}
	return json.Marshal(raw)
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Provider string

const (
	ProviderGithub   Provider = "github"
	ProviderGoogle   Provider = "google"
	ProviderLinkedin Provider = "linkedin"
	ProviderLocal    Provider = "local"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderGithub, ProviderGoogle, ProviderLinkedin, ProviderLocal:
		return true
	}
	return false
}

type Profile struct {
	ID        uint     `gorm:"primaryKey;column:id" json:"id"`
	Name      string   `gorm:"not null;column:name" json:"name"`
	Email     string   `gorm:"unique;not null;column:email" json:"email"`
	Username  string   `gorm:"unique;column:username" json:"username"`
	Password  string   `gorm:"column:password" json:"-"`
	Provider  Provider `gorm:"not null;column:provider" json:"provider"`
	AvatarURL string   `gorm:"column:avatar_url" json:"avatarUrl"`
	Codename  string   `gorm:"column:codename" json:"codename"`

	Traits StringList `gorm:"column:traits;type:jsonb" json:"traits"`
	Badges StringList `gorm:"column:badges;type:jsonb" json:"badges"`

	QuizAnswers   QuizAnswers   `gorm:"column:quiz_answers;type:jsonb" json:"quizAnswers"`
	MemeReactions MemeReactions `gorm:"column:meme_reactions;type:jsonb" json:"memeReactions"`
	DevDna        DevDna        `gorm:"column:dev_dna;type:jsonb" json:"devDna"`

	ProfileComplete bool `gorm:"not null;default:false;column:profile_complete" json:"profileComplete"`
}

func (Profile) TableName() string {
	return "users"
}

// Onboarded reports whether the profile can be scored at all: it needs at
// least one quiz answer and one meme reaction, independent of the
// ProfileComplete flag.
func (p *Profile) Onboarded() bool {
	return len(p.QuizAnswers) > 0 && len(p.MemeReactions) > 0
}

type MemeReaction struct {
	MemeID   string `json:"memeId"`
	Reaction string `json:"reaction"`
}

var allowedReactions = map[string]struct{}{
	"😐": {}, "😂": {}, "💯": {}, "😭": {},
}

func (r MemeReaction) Validate() error {
	if r.MemeID == "" {
		return fmt.Errorf("meme reaction: empty meme id")
	}
	if _, ok := allowedReactions[r.Reaction]; !ok {
		return fmt.Errorf("meme reaction: unknown reaction %q", r.Reaction)
	}
	return nil
}

type MemeReactions []MemeReaction

// Merge replaces the stored reaction for a meme id when a later reaction for
// the same id arrives, preserving first-seen order otherwise.
func (rs MemeReactions) Merge(incoming MemeReactions) MemeReactions {
	merged := make(MemeReactions, 0, len(rs)+len(incoming))
	index := make(map[string]int, len(rs))
	for _, r := range rs {
		if i, seen := index[r.MemeID]; seen {
			merged[i] = r
			continue
		}
		index[r.MemeID] = len(merged)
		merged = append(merged, r)
	}
	for _, r := range incoming {
		if i, seen := index[r.MemeID]; seen {
			merged[i] = r
			continue
		}
		index[r.MemeID] = len(merged)
		merged = append(merged, r)
	}
	return merged
}

func (rs MemeReactions) Value() (driver.Value, error) {
	if rs == nil {
		rs = MemeReactions{}
	}
	return json.Marshal(rs)
}

func (rs *MemeReactions) Scan(src interface{}) error {
	return scanJSON(src, rs)
}

type LanguageShare struct {
	Lang  string  `json:"lang"`
	Value float64 `json:"value"`
}

type DevDna struct {
	TopLanguages    []LanguageShare `json:"topLanguages"`
	CommitFrequency float64         `json:"commitFrequency"`
	StarCount       int             `json:"starCount"`
}

func (d DevDna) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *DevDna) Scan(src interface{}) error {
	return scanJSON(src, d)
}

type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}

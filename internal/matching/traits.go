package matching

import (
	"math/rand"

	"github.com/ajisaka/devmatch/internal/entity"
)

// Trait derivation turns onboarding answers into the display traits, badges
// and codename shown on a profile card. Purely cosmetic; the scoring engine
// never reads these.

var choiceTraits = map[int]map[string][]string{
	1: {
		"Morning":  {"Early Bird", "Morning Person"},
		"Night":    {"Night Owl", "Late Night Coder"},
		"Flexible": {"Flexible Schedule"},
	},
	2: {
		"Customized Zsh/Fish": {"Terminal Customizer", "CLI Enthusiast"},
		"Default Bash":        {"Simplicity Lover"},
		"Modern GUI terminal": {"Modern Tools", "Innovation Seeker"},
	},
	4: {
		"Spaces": {"Clean Code", "Format Enthusiast"},
		"Tabs":   {"Efficient", "Quick Coder"},
	},
	5: {
		"GitHub Issues":       {"Version Control Oriented"},
		"Kanban board":        {"Visual Organizer", "Project Manager"},
		"Documentation-first": {"Documentation Lover", "Organized"},
	},
	7: {
		"Dark":  {"Dark Theme Lover", "Night Mode"},
		"Light": {"Light Theme Lover", "Day Mode"},
	},
	10: {
		"Single laptop":          {"Minimalist", "Portable"},
		"Multi-monitor desk":     {"Power User", "Multi-Tasker"},
		"Coffee shop/Co-working": {"Social Coder", "Networking"},
	},
}

var choiceBadges = map[int]map[string]string{
	1: {"Night": "Night Coder"},
	2: {"Modern GUI terminal": "Modern Terminal User"},
	4: {"Spaces": "Clean Formatter"},
	5: {"GitHub Issues": "Version Control Oriented"},
	7: {"Dark": "Dark Theme Aficionado"},
}

var stressMemes = map[string]struct{}{
	"This is Fine (Production)": {},
	"Explaining a Bug":          {},
}

func DeriveTraits(answers entity.QuizAnswers, reactions entity.MemeReactions) []string {
	traits := []string{}
	seen := map[string]struct{}{}
	add := func(values ...string) {
		for _, v := range values {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			traits = append(traits, v)
		}
	}

	for _, questionID := range []int{1, 2, 4, 5, 7, 10} {
		answer, ok := answers[questionID]
		if !ok || answer.Type == entity.AnswerSlider {
			continue
		}
		add(choiceTraits[questionID][answer.Choice]...)
	}

	funny := 0
	stress := 0
	for _, r := range reactions {
		if r.Reaction != "😂" {
			continue
		}
		funny++
		if _, ok := stressMemes[r.MemeID]; ok {
			stress++
		}
	}
	if funny > 2 {
		add("Meme Lover", "Humor Appreciator")
	}
	if stress > 0 {
		add("Stress Handler", "Resilient")
	}

	add("Developer", "Problem Solver")
	return traits
}

func DeriveBadges(answers entity.QuizAnswers) []string {
	badges := []string{}
	for _, questionID := range []int{5, 7, 4, 1, 2} {
		answer, ok := answers[questionID]
		if !ok || answer.Type == entity.AnswerSlider {
			continue
		}
		if badge, ok := choiceBadges[questionID][answer.Choice]; ok {
			badges = append(badges, badge)
		}
	}
	if len(badges) == 0 {
		badges = append(badges, "Developer")
	}
	return badges
}

const codenameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func Codename(answers entity.QuizAnswers) string {
	base := "Flex"
	if answer, ok := answers[1]; ok {
		switch answer.Choice {
		case "Night":
			base = "Night"
		case "Morning":
			base = "Sun"
		}
	}
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codenameAlphabet[rand.Intn(len(codenameAlphabet))]
	}
	return base + "_" + string(suffix)
}

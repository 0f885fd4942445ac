package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
)

// Ensure PromptCoach implements the interface.
var _ driving.PromptCoach = (*PromptCoach)(nil)

// minPromptLength is the rune count below which the coach asks for specificity.
const minPromptLength = 10

// maxTooltipSuggestions caps how many suggestions the tooltip shows.
const maxTooltipSuggestions = 3

// coachRule pairs a pattern with its structuring suggestions.
type coachRule struct {
	category    string
	pattern     *regexp.Regexp
	suggestions []string
}

// coachRules is the fixed rule table, matched against the lower-cased prompt.
// Order is fixed so the suggestion set is deterministic.
var coachRules = []coachRule{
	{
		category: "document_analysis",
		pattern:  regexp.MustCompile(`(summarize|analyze|review)\s+this`),
		suggestions: []string{
			"Use [document] to summarize key points",
			"Analyze [document] for [specific_aspect]",
			"Review [document] and highlight [focus_area]",
		},
	},
	{
		category: "legal_drafting",
		pattern:  regexp.MustCompile(`draft\s+(a|an)?.*`),
		suggestions: []string{
			"Draft [document_type] for [client], cite [law]",
			"Create [document_type] based on [precedent]",
			"Prepare [document_type] following [template]",
		},
	},
	{
		category: "law_citation",
		pattern:  regexp.MustCompile(`(cite|use)\s+(law|code|statute)`),
		suggestions: []string{
			"Use [law] to support [argument]",
			"Cite [statute] for [legal_point]",
			"Apply [law] to [situation]",
		},
	},
	{
		category: "trademark",
		pattern:  regexp.MustCompile(`(trademark|office\s+action)`),
		suggestions: []string{
			"Review [office_action] for [application]",
			"Draft response to [office_action], cite [TMEP]",
			"Analyze [trademark] under [section]",
		},
	},
}

// PromptCoach is a rule-based advisor over draft prompts. It is stateless;
// identical input always yields the identical suggestion set.
type PromptCoach struct{}

// NewPromptCoach creates the coach.
func NewPromptCoach() *PromptCoach {
	return &PromptCoach{}
}

// Analyze returns zero or more structuring suggestions for the draft prompt.
func (c *PromptCoach) Analyze(prompt string) []driving.CoachSuggestion {
	trimmed := strings.TrimSpace(strings.ToLower(prompt))

	if utf8.RuneCountInString(trimmed) < minPromptLength {
		return []driving.CoachSuggestion{{
			Category: "specificity",
			Text:     "Try to be more specific in your request.",
		}}
	}

	var out []driving.CoachSuggestion
	for _, rule := range coachRules {
		if rule.pattern.MatchString(trimmed) {
			for _, s := range rule.suggestions {
				out = append(out, driving.CoachSuggestion{Category: rule.category, Text: s})
			}
		}
	}
	return out
}

// Tooltip composes the suggestions into a single display string, capped at
// three unique suggestions. Returns empty when there are none.
func (c *PromptCoach) Tooltip(prompt string) string {
	suggestions := c.Analyze(prompt)
	if len(suggestions) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(suggestions))
	var b strings.Builder
	b.WriteString("Try structuring your prompt:")

	count := 0
	for _, s := range suggestions {
		if _, dup := seen[s.Text]; dup {
			continue
		}
		seen[s.Text] = struct{}{}
		b.WriteString("\n• ")
		b.WriteString(s.Text)
		count++
		if count == maxTooltipSuggestions {
			break
		}
	}
	return b.String()
}

package driving

// CoachSuggestion is a single prompt-structuring suggestion.
type CoachSuggestion struct {
	// Category names the matched rule (e.g. "legal_drafting").
	Category string `json:"category"`

	// Text is the suggestion itself.
	Text string `json:"text"`
}

// PromptCoach inspects a draft prompt and suggests structuring improvements.
// It is stateless: identical input always yields the identical suggestion set.
type PromptCoach interface {
	// Analyze returns zero or more suggestions for the draft prompt.
	Analyze(prompt string) []CoachSuggestion

	// Tooltip composes the suggestions into a single display string.
	// Returns empty when there are no suggestions.
	Tooltip(prompt string) string
}

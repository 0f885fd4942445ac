package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptCoach_DraftPromptMentionsCitation(t *testing.T) {
	coach := NewPromptCoach()

	suggestions := coach.Analyze("draft a response")
	require.NotEmpty(t, suggestions)

	var mentionsCite bool
	for _, s := range suggestions {
		if strings.Contains(strings.ToLower(s.Text), "cite") {
			mentionsCite = true
		}
	}
	assert.True(t, mentionsCite, "drafting prompts should suggest citation structuring")
	assert.Equal(t, "legal_drafting", suggestions[0].Category)
}

func TestPromptCoach_ShortPromptAsksForSpecificity(t *testing.T) {
	coach := NewPromptCoach()

	suggestions := coach.Analyze("help")
	require.Len(t, suggestions, 1)
	assert.Equal(t, "specificity", suggestions[0].Category)
	assert.Contains(t, suggestions[0].Text, "more specific")
}

func TestPromptCoach_ShortPromptCountsRunes(t *testing.T) {
	coach := NewPromptCoach()

	// Seven runes but more than ten bytes: still a short prompt.
	suggestions := coach.Analyze("резюме?")
	require.Len(t, suggestions, 1)
	assert.Equal(t, "specificity", suggestions[0].Category)
}

func TestPromptCoach_DocumentAnalysis(t *testing.T) {
	coach := NewPromptCoach()

	suggestions := coach.Analyze("please summarize this affidavit")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "document_analysis", suggestions[0].Category)
}

func TestPromptCoach_MultipleCategories(t *testing.T) {
	coach := NewPromptCoach()

	suggestions := coach.Analyze("draft a response to the trademark office action")
	categories := make(map[string]bool)
	for _, s := range suggestions {
		categories[s.Category] = true
	}
	assert.True(t, categories["legal_drafting"])
	assert.True(t, categories["trademark"])
}

func TestPromptCoach_NoMatch(t *testing.T) {
	coach := NewPromptCoach()
	assert.Empty(t, coach.Analyze("what happened in the hearing yesterday"))
	assert.Empty(t, coach.Tooltip("what happened in the hearing yesterday"))
}

func TestPromptCoach_Deterministic(t *testing.T) {
	coach := NewPromptCoach()
	prompt := "draft a motion and cite statute provisions"
	assert.Equal(t, coach.Analyze(prompt), coach.Analyze(prompt))
}

func TestPromptCoach_Tooltip_CapsAtThree(t *testing.T) {
	coach := NewPromptCoach()

	tooltip := coach.Tooltip("draft a response to the trademark office action")
	require.NotEmpty(t, tooltip)
	assert.True(t, strings.HasPrefix(tooltip, "Try structuring your prompt:"))
	assert.Equal(t, 3, strings.Count(tooltip, "• "))
}

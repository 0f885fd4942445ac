package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Ensure TaggerService implements the interface.
var _ driving.TaggerService = (*TaggerService)(nil)

// DefaultConfidenceThreshold is the minimum score for an authoritative tag.
const DefaultConfidenceThreshold = 0.85

// exemplarPhrases maps each candidate tag to the phrases that characterise it.
var exemplarPhrases = map[string][]string{
	domain.TagPetition: {
		"petition for divorce",
		"custody petition",
		"motion for temporary orders",
		"family court",
		"child support",
	},
	domain.TagOfficeAction: {
		"trademark",
		"office action",
		"registration number",
		"serial number",
		"likelihood of confusion",
		"section 2(d)",
		"TMEP",
	},
	domain.TagExample: {
		"example document",
		"sample case",
		"template",
		"demonstration",
	},
}

// TaggerService classifies documents into the fixed tag set by lexical
// similarity against exemplar phrases.
type TaggerService struct {
	threshold float64
}

// NewTaggerService creates a tagger with the given confidence threshold.
// A non-positive threshold falls back to the default.
func NewTaggerService(threshold float64) *TaggerService {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &TaggerService{threshold: threshold}
}

// Threshold returns the configured confidence threshold.
func (s *TaggerService) Threshold() float64 { return s.threshold }

// Tag returns the best-matching tag with its confidence. When no candidate
// reaches the threshold the default tag is returned, carrying the best
// candidate's (low) score.
func (s *TaggerService) Tag(_ context.Context, text string) (string, float64, error) {
	if strings.TrimSpace(text) == "" {
		return "", 0, domain.ErrInvalidInput
	}

	scores := s.scores(text)

	best := ""
	bestScore := 0.0
	// Lexical iteration order makes the tie-break deterministic: on equal
	// scores the lexically smallest tag wins.
	for _, tag := range domain.SupportedTags() {
		if scores[tag] > bestScore {
			best = tag
			bestScore = scores[tag]
		}
	}

	if best == "" || bestScore < s.threshold {
		logger.Debug("tagger: no tag above threshold %.2f (best %q at %.2f), using default",
			s.threshold, best, bestScore)
		return domain.TagDefault, bestScore, nil
	}

	return best, bestScore, nil
}

// Suggest returns all tags at or above the threshold, sorted by confidence
// descending; equal confidences keep lexical tag order.
func (s *TaggerService) Suggest(_ context.Context, text string) ([]domain.TagSuggestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}

	scores := s.scores(text)

	var suggestions []domain.TagSuggestion
	for _, tag := range domain.SupportedTags() {
		if scores[tag] >= s.threshold {
			suggestions = append(suggestions, domain.TagSuggestion{Tag: tag, Confidence: scores[tag]})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	return suggestions, nil
}

// scores computes, for each tag, the maximum similarity between any token
// window of the document and any of the tag's exemplar phrases.
func (s *TaggerService) scores(text string) map[string]float64 {
	docTokens := tokenize(text)

	scores := make(map[string]float64, len(exemplarPhrases))
	for tag, phrases := range exemplarPhrases {
		best := 0.0
		for _, phrase := range phrases {
			if sim := phraseSimilarity(docTokens, tokenize(phrase)); sim > best {
				best = sim
			}
		}
		scores[tag] = best
	}
	return scores
}

// phraseSimilarity slides a window the length of the phrase over the
// document tokens and returns the maximum Jaccard similarity between the
// window's token set and the phrase's token set.
func phraseSimilarity(docTokens, phraseTokens []string) float64 {
	if len(docTokens) == 0 || len(phraseTokens) == 0 {
		return 0
	}

	phraseSet := make(map[string]struct{}, len(phraseTokens))
	for _, tok := range phraseTokens {
		phraseSet[tok] = struct{}{}
	}

	windowLen := len(phraseTokens)
	if windowLen > len(docTokens) {
		windowLen = len(docTokens)
	}

	best := 0.0
	for start := 0; start+windowLen <= len(docTokens); start++ {
		window := make(map[string]struct{}, windowLen)
		for _, tok := range docTokens[start : start+windowLen] {
			window[tok] = struct{}{}
		}

		intersection := 0
		for tok := range window {
			if _, ok := phraseSet[tok]; ok {
				intersection++
			}
		}
		union := len(window) + len(phraseSet) - intersection
		if union == 0 {
			continue
		}
		if sim := float64(intersection) / float64(union); sim > best {
			best = sim
		}
	}
	return best
}

// tokenize lower-cases and splits on whitespace, trimming edge punctuation.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'”“’‘")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// TaggerService classifies documents into the fixed tag set.
type TaggerService interface {
	// Tag returns the best-matching tag with its confidence in [0,1].
	// Documents matching no exemplar phrases get domain.TagDefault at
	// low confidence.
	Tag(ctx context.Context, text string) (string, float64, error)

	// Suggest returns all tags scoring at or above the configured
	// threshold, sorted by confidence descending.
	Suggest(ctx context.Context, text string) ([]domain.TagSuggestion, error)

	// Threshold returns the confidence threshold below which a
	// caller-supplied tag overrides the auto-tag.
	Threshold() float64
}

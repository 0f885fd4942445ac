package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// AnswerService answers questions grounded in retrieved document chunks.
type AnswerService interface {
	// Answer embeds the question, retrieves the most relevant chunks and
	// composes a grounded answer with citations. When retrieval returns
	// nothing, the fixed insufficient-information message is returned with
	// empty sources; the model is not consulted.
	Answer(ctx context.Context, question string, opts domain.RetrievalOptions) (*domain.Answer, error)
}

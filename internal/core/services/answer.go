package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Generation defaults for grounded answering, matching the conservative
// settings used for legal drafting.
const (
	answerMaxTokens   = 1000
	answerTemperature = 0.1
)

// AnswerService answers questions grounded in retrieved document chunks.
type AnswerService struct {
	docStore    driven.DocumentStore
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewAnswerService creates an answering service.
func NewAnswerService(
	docStore driven.DocumentStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	promptStore driven.PromptStore,
) *AnswerService {
	return &AnswerService{
		docStore:    docStore,
		embedder:    embedder,
		llm:         llm,
		promptStore: promptStore,
	}
}

// Answer embeds the question, retrieves the most relevant chunks and
// composes a grounded answer with citations.
//
// Empty retrieval means insufficient grounding, not a fault: the fixed
// insufficient-information message is returned and the model is not called.
func (s *AnswerService) Answer(
	ctx context.Context, question string, opts domain.RetrievalOptions,
) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	start := time.Now()

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %v", domain.ErrEmbeddingFailure, err)
	}

	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}

	retrieved, err := s.docStore.SearchSimilar(ctx, queryVec, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", domain.ErrStoreFailure, err)
	}

	if len(retrieved) == 0 {
		logger.Debug("answer: no grounding chunks for question %q", question)
		return &domain.Answer{
			Text:              domain.InsufficientInformation,
			Sources:           []domain.RetrievedChunk{},
			ProcessingSeconds: time.Since(start).Seconds(),
		}, nil
	}

	prompt, err := s.composePrompt(question, retrieved)
	if err != nil {
		return nil, fmt.Errorf("compose prompt: %w", err)
	}

	text, err := s.generate(ctx, prompt)
	if err != nil {
		// Model failures are a distinct error kind, never an empty answer
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}

	logger.Info("answer: %d sources, %.2fs", len(retrieved), time.Since(start).Seconds())

	return &domain.Answer{
		Text:              text,
		Sources:           retrieved,
		ProcessingSeconds: time.Since(start).Seconds(),
	}, nil
}

// generate sends the composed prompt to the model. When an answering
// system instruction is configured it is sent as a system message;
// otherwise the prompt goes out as a bare completion.
func (s *AnswerService) generate(ctx context.Context, prompt string) (string, error) {
	system, err := s.promptStore.Load(driven.PromptAnswerSystem)
	if err != nil || strings.TrimSpace(system) == "" {
		return s.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   answerMaxTokens,
			Temperature: answerTemperature,
		})
	}

	return s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
}

// composePrompt renders the answer template with numbered source blocks.
func (s *AnswerService) composePrompt(question string, retrieved []domain.RetrievedChunk) (string, error) {
	template, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		return "", err
	}

	var sources strings.Builder
	for i, rc := range retrieved {
		if i > 0 {
			sources.WriteString("\n\n")
		}
		fmt.Fprintf(&sources, "Source %d (%s):\n%s", i+1, rc.DocumentTitle, rc.Chunk.Content)
	}

	return fmt.Sprintf(template, sources.String(), question), nil
}

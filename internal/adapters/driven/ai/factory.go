// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/lexpert-ai/lexpert/internal/adapters/driven/embedding/cached"
	openaiembed "github.com/lexpert-ai/lexpert/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/lexpert-ai/lexpert/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/lexpert-ai/lexpert/internal/adapters/driven/llm/openai"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Supported AI providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// EmbeddingSettings selects and configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is the embedding provider (only "openai" supports embeddings).
	Provider string

	// APIKey is the provider API key.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// LLMSettings selects and configures the completion provider.
type LLMSettings struct {
	// Provider is "openai" or "anthropic".
	Provider string

	// APIKey is the provider API key.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model is the completion model name.
	Model string
}

// CreateEmbeddingService creates the appropriate embedding service and wraps
// it with the given cache. Pass nil to disable caching.
func CreateEmbeddingService(settings EmbeddingSettings, cache driven.Cache) (driven.EmbeddingService, error) {
	var svc driven.EmbeddingService

	switch settings.Provider {
	case "", ProviderOpenAI:
		inner, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		svc = inner

	case ProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	if cache == nil {
		return svc, nil
	}
	return cached.New(svc, cache), nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(settings LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case "", ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case ProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// ValidateEmbeddingService validates connectivity with a bounded ping.
func ValidateEmbeddingService(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service unreachable: %w", err)
	}
	return nil
}

// ValidateLLMService validates connectivity with a bounded ping.
func ValidateLLMService(svc driven.LLMService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("LLM service unreachable: %w", err)
	}
	return nil
}

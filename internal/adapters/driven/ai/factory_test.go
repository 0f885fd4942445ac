package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    EmbeddingSettings
		wantErr     bool
		errContains string
	}{
		{
			name:     "openai provider creates service",
			settings: EmbeddingSettings{Provider: ProviderOpenAI, APIKey: "test-key"},
		},
		{
			name:     "empty provider defaults to openai",
			settings: EmbeddingSettings{APIKey: "test-key"},
		},
		{
			name:        "missing api key",
			settings:    EmbeddingSettings{Provider: ProviderOpenAI},
			wantErr:     true,
			errContains: "API key",
		},
		{
			name:        "anthropic has no embeddings",
			settings:    EmbeddingSettings{Provider: ProviderAnthropic, APIKey: "test-key"},
			wantErr:     true,
			errContains: "does not support embeddings",
		},
		{
			name:        "unknown provider",
			settings:    EmbeddingSettings{Provider: "cohere", APIKey: "test-key"},
			wantErr:     true,
			errContains: "unsupported embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Positive(t, svc.Dimensions())
		})
	}
}

func TestCreateEmbeddingService_CachedWrapper(t *testing.T) {
	svc, err := CreateEmbeddingService(EmbeddingSettings{APIKey: "test-key", Model: "text-embedding-3-small"}, driven.NopCache{})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name        string
		settings    LLMSettings
		wantModel   string
		wantErr     bool
		errContains string
	}{
		{
			name:      "openai provider creates service",
			settings:  LLMSettings{Provider: ProviderOpenAI, APIKey: "test-key"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic provider creates service",
			settings:  LLMSettings{Provider: ProviderAnthropic, APIKey: "test-key"},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name:      "explicit model wins",
			settings:  LLMSettings{Provider: ProviderOpenAI, APIKey: "test-key", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:        "unknown provider",
			settings:    LLMSettings{Provider: "cohere", APIKey: "test-key"},
			wantErr:     true,
			errContains: "unsupported LLM provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

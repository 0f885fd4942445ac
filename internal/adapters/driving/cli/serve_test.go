package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpert-ai/lexpert/internal/adapters/driven/config/file"
)

func TestServeCmd_Registered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "serve" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildDocStore_Memory(t *testing.T) {
	cfg := file.DefaultConfig()
	cfg.Store.Driver = "memory"

	store, err := buildDocStore(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

func TestBuildDocStore_Sqlite(t *testing.T) {
	cfg := file.DefaultConfig()
	cfg.Store.Driver = "sqlite"
	cfg.Store.DataDir = t.TempDir()

	store, err := buildDocStore(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

func TestBuildDocStore_UnknownDriver(t *testing.T) {
	cfg := file.DefaultConfig()
	cfg.Store.Driver = "redis"

	_, err := buildDocStore(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestLLMKey_PicksProviderKey(t *testing.T) {
	cfg := file.DefaultConfig()
	cfg.AI.OpenAIKey = "sk-openai"
	cfg.AI.AnthropicKey = "sk-anthropic"

	cfg.AI.LLMProvider = "openai"
	assert.Equal(t, "sk-openai", llmKey(cfg))

	cfg.AI.LLMProvider = "anthropic"
	assert.Equal(t, "sk-anthropic", llmKey(cfg))
}

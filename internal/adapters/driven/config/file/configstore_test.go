package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "openai", cfg.AI.EmbeddingProvider)
	assert.Equal(t, "openai", cfg.AI.LLMProvider)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[store]
driver = "postgres"
dsn = "postgres://localhost/lexpert"

[ai]
llm_provider = "anthropic"
llm_model = "claude-sonnet-4-20250514"

[retrieve]
top_k = 8

[tagging]
confidence_threshold = 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/lexpert", cfg.Store.DSN)
	assert.Equal(t, "anthropic", cfg.AI.LLMProvider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AI.LLMModel)
	assert.Equal(t, 8, cfg.Retrieve.TopK)
	assert.InDelta(t, 0.9, cfg.Tagging.ConfidenceThreshold, 1e-9)
	// Untouched sections keep their defaults
	assert.Equal(t, "openai", cfg.AI.EmbeddingProvider)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[supabase]
project_url = "https://file.supabase.co"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("LEXPERT_ADDR", ":7070")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("LEXPERT_TOP_K", "3")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "https://env.supabase.co", cfg.Supabase.ProjectURL)
	assert.Equal(t, "sk-env", cfg.AI.OpenAIKey)
	assert.Equal(t, 3, cfg.Retrieve.TopK)
}

func TestLoadConfig_EmptyEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[supabase]
project_url = "https://file.supabase.co"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("SUPABASE_URL", "")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "https://file.supabase.co", cfg.Supabase.ProjectURL)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := LoadConfig(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown store driver",
			mutate:  func(c *Config) { c.Store.Driver = "redis" },
			wantErr: "unknown store driver",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: "requires a dsn",
		},
		{
			name: "postgres with dsn",
			mutate: func(c *Config) {
				c.Store.Driver = "postgres"
				c.Store.DSN = "postgres://localhost/lexpert"
			},
		},
		{
			name:    "negative chunk size",
			mutate:  func(c *Config) { c.Chunking.Size = -1 },
			wantErr: "non-negative",
		},
		{
			name: "overlap not smaller than size",
			mutate: func(c *Config) {
				c.Chunking.Size = 100
				c.Chunking.Overlap = 100
			},
			wantErr: "must be smaller than size",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Tagging.ConfidenceThreshold = 1.5 },
			wantErr: "confidence threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":4000"
	cfg.Store.Driver = "memory"
	cfg.AI.LLMModel = "gpt-4o"

	require.NoError(t, SaveConfig(path, cfg))

	// Written with restricted permissions
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":4000", loaded.Server.Addr)
	assert.Equal(t, "memory", loaded.Store.Driver)
	assert.Equal(t, "gpt-4o", loaded.AI.LLMModel)
}

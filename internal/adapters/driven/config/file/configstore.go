package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the full application configuration.
// Values come from a TOML file, with secrets overridable via environment
// variables so they never have to live on disk.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Supabase SupabaseConfig `toml:"supabase"`
	AI       AIConfig       `toml:"ai"`
	Cache    CacheConfig    `toml:"cache"`
	Retrieve RetrieveConfig `toml:"retrieve"`
	Chunking ChunkingConfig `toml:"chunking"`
	Tagging  TaggingConfig  `toml:"tagging"`
	Prompts  PromptsConfig  `toml:"prompts"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Driver is one of "postgres", "sqlite" or "memory".
	Driver string `toml:"driver"`
	// DSN is the Postgres connection string (postgres driver only).
	DSN string `toml:"dsn"`
	// DataDir is the sqlite data directory (sqlite driver only).
	// Empty means the driver default (~/.lexpert/data).
	DataDir string `toml:"data_dir"`
}

// SupabaseConfig configures the Supabase storage and auth clients.
type SupabaseConfig struct {
	ProjectURL string `toml:"project_url"`
	ServiceKey string `toml:"service_key"`
	AnonKey    string `toml:"anon_key"`
}

// AIConfig configures the embedding and LLM providers.
type AIConfig struct {
	EmbeddingProvider string `toml:"embedding_provider"`
	EmbeddingModel    string `toml:"embedding_model"`
	LLMProvider       string `toml:"llm_provider"`
	LLMModel          string `toml:"llm_model"`
	OpenAIKey         string `toml:"openai_key"`
	AnthropicKey      string `toml:"anthropic_key"`
}

// CacheConfig configures the in-memory cache.
type CacheConfig struct {
	// MaxSize is the entry cap; 0 means the cache default.
	MaxSize int `toml:"max_size"`
	// Disabled turns off caching entirely.
	Disabled bool `toml:"disabled"`
}

// RetrieveConfig configures retrieval behaviour.
type RetrieveConfig struct {
	// TopK is the default number of chunks returned per query.
	// 0 means the domain default.
	TopK int `toml:"top_k"`
}

// ChunkingConfig configures document chunking.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// TaggingConfig configures automatic document tagging.
type TaggingConfig struct {
	// ConfidenceThreshold below which a caller-supplied tag wins.
	// 0 means the service default.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// PromptsConfig configures the prompt store.
type PromptsConfig struct {
	// Dir is the prompt directory. Empty means ~/.lexpert/prompts.
	Dir string `toml:"dir"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Driver: "sqlite"},
		AI: AIConfig{
			EmbeddingProvider: "openai",
			LLMProvider:       "openai",
		},
	}
}

// DefaultConfigPath returns the default config file location
// (~/.lexpert/config.toml).
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".lexpert", "config.toml"), nil
}

// LoadConfig reads configuration from the TOML file at path, then applies
// environment variable overrides. A missing file is not an error - the
// defaults plus environment are used.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		// No config file - defaults plus environment
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SaveConfig writes configuration to the TOML file at path with restricted
// permissions, creating the parent directory if needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Config may contain API keys
	return os.WriteFile(path, data, 0600)
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store driver %q (want postgres, sqlite or memory)", c.Store.Driver)
	}

	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store driver postgres requires a dsn")
	}

	if c.Chunking.Size < 0 || c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking size and overlap must be non-negative")
	}
	if c.Chunking.Size > 0 && c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking overlap %d must be smaller than size %d", c.Chunking.Overlap, c.Chunking.Size)
	}

	if c.Tagging.ConfidenceThreshold < 0 || c.Tagging.ConfidenceThreshold > 1 {
		return fmt.Errorf("tagging confidence threshold must be in [0, 1]")
	}

	return nil
}

// applyEnvOverrides lets environment variables take precedence over file
// values. Secrets are expected to arrive this way in deployments.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Addr, "LEXPERT_ADDR")
	overrideString(&cfg.Store.Driver, "LEXPERT_STORE_DRIVER")
	overrideString(&cfg.Store.DSN, "DATABASE_URL")
	overrideString(&cfg.Store.DataDir, "LEXPERT_DATA_DIR")
	overrideString(&cfg.Supabase.ProjectURL, "SUPABASE_URL")
	overrideString(&cfg.Supabase.ServiceKey, "SUPABASE_SERVICE_KEY")
	overrideString(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	overrideString(&cfg.AI.EmbeddingProvider, "LEXPERT_EMBEDDING_PROVIDER")
	overrideString(&cfg.AI.EmbeddingModel, "LEXPERT_EMBEDDING_MODEL")
	overrideString(&cfg.AI.LLMProvider, "LEXPERT_LLM_PROVIDER")
	overrideString(&cfg.AI.LLMModel, "LEXPERT_LLM_MODEL")
	overrideString(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	overrideString(&cfg.AI.AnthropicKey, "ANTHROPIC_API_KEY")
	overrideInt(&cfg.Retrieve.TopK, "LEXPERT_TOP_K")
}

func overrideString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

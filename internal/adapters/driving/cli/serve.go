package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lexpert-ai/lexpert/internal/adapters/driven/ai"
	supabaseauth "github.com/lexpert-ai/lexpert/internal/adapters/driven/auth/supabase"
	memoryblob "github.com/lexpert-ai/lexpert/internal/adapters/driven/blob/memory"
	supabaseblob "github.com/lexpert-ai/lexpert/internal/adapters/driven/blob/supabase"
	memorycache "github.com/lexpert-ai/lexpert/internal/adapters/driven/cache/memory"
	"github.com/lexpert-ai/lexpert/internal/adapters/driven/config/file"
	memorystore "github.com/lexpert-ai/lexpert/internal/adapters/driven/storage/memory"
	"github.com/lexpert-ai/lexpert/internal/adapters/driven/storage/postgres"
	"github.com/lexpert-ai/lexpert/internal/adapters/driven/storage/sqlite"
	"github.com/lexpert-ai/lexpert/internal/adapters/driving/httpapi"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
	"github.com/lexpert-ai/lexpert/internal/core/services"
	"github.com/lexpert-ai/lexpert/internal/logger"
	"github.com/lexpert-ai/lexpert/internal/pipeline/chunker"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the Lexpert HTTP API. Configuration comes from the config
file, with secrets supplied via environment variables or a .env file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Secrets from .env, when present. Missing file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("serve: loaded .env")
	}

	cfg, err := file.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Document store
	docStore, err := buildDocStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer docStore.Close()

	// Shared cache for auth lookups and embeddings
	var cache driven.Cache
	if !cfg.Cache.Disabled {
		cache = memorycache.New(cfg.Cache.MaxSize)
	}

	// AI providers
	embedder, err := ai.CreateEmbeddingService(ai.EmbeddingSettings{
		Provider: cfg.AI.EmbeddingProvider,
		APIKey:   cfg.AI.OpenAIKey,
		Model:    cfg.AI.EmbeddingModel,
	}, cache)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	defer embedder.Close()

	llm, err := ai.CreateLLMService(ai.LLMSettings{
		Provider: cfg.AI.LLMProvider,
		APIKey:   llmKey(cfg),
		Model:    cfg.AI.LLMModel,
	})
	if err != nil {
		return fmt.Errorf("create llm service: %w", err)
	}
	defer llm.Close()

	prompts, err := file.NewPromptStore(cfg.Prompts.Dir)
	if err != nil {
		return fmt.Errorf("create prompt store: %w", err)
	}

	// Blob storage and auth: Supabase when configured, otherwise an
	// in-process blob store and no authentication (local development).
	var blobs driven.BlobStore
	var authSvc *services.AuthService
	if cfg.Supabase.ProjectURL != "" {
		supaBlobs, err := supabaseblob.NewBlobStore(supabaseblob.Config{
			ProjectURL: cfg.Supabase.ProjectURL,
			ServiceKey: cfg.Supabase.ServiceKey,
		})
		if err != nil {
			return fmt.Errorf("create blob store: %w", err)
		}
		blobs = supaBlobs

		verifier, err := supabaseauth.NewVerifier(supabaseauth.Config{
			ProjectURL: cfg.Supabase.ProjectURL,
			APIKey:     cfg.Supabase.AnonKey,
		})
		if err != nil {
			return fmt.Errorf("create identity verifier: %w", err)
		}
		authSvc = services.NewAuthService(verifier, cache)
	} else {
		logger.Warn("serve: no Supabase project configured; using in-memory blob storage, authentication disabled")
		blobs = memoryblob.NewBlobStore()
	}

	// Core services
	chunkerOpts := []chunker.Option{}
	if cfg.Chunking.Size > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(cfg.Chunking.Size))
	}
	if cfg.Chunking.Overlap > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(cfg.Chunking.Overlap))
	}

	tagger := services.NewTaggerService(cfg.Tagging.ConfidenceThreshold)
	ingest := services.NewIngestService(docStore, embedder, tagger, chunker.New(chunkerOpts...))
	answer := services.NewAnswerService(docStore, embedder, llm, prompts)
	storage := services.NewStorageService(blobs, docStore)

	apiServices := httpapi.Services{
		Chat:    services.NewChatService(),
		Answer:  answer,
		Ingest:  ingest,
		Storage: storage,
		Tagger:  tagger,
		Coach:   services.NewPromptCoach(),
	}
	if authSvc != nil {
		apiServices.Auth = authSvc
	}

	srv := httpapi.New(httpapi.Config{Addr: cfg.Server.Addr}, apiServices)

	logger.Info("serve: store=%s embeddings=%s llm=%s", cfg.Store.Driver, embedder.ModelName(), llm.ModelName())
	return srv.Start(ctx)
}

// buildDocStore opens the configured document store backend.
func buildDocStore(ctx context.Context, cfg file.Config) (driven.DocumentStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return postgres.NewStore(ctx, postgres.Config{DSN: cfg.Store.DSN})
	case "sqlite":
		return sqlite.NewStore(cfg.Store.DataDir)
	case "memory":
		return memorystore.NewDocumentStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// llmKey picks the API key matching the configured LLM provider.
func llmKey(cfg file.Config) string {
	if cfg.AI.LLMProvider == ai.ProviderAnthropic {
		return cfg.AI.AnthropicKey
	}
	return cfg.AI.OpenAIKey
}

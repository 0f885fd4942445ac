package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
	"github.com/lexpert-ai/lexpert/internal/pipeline/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: tag, chunk, embed, store.
type IngestService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
	tagger   driving.TaggerService
	splitter *chunker.Chunker
}

// NewIngestService creates an ingestion service. All dependencies are
// required; lifecycle is owned by the caller.
func NewIngestService(
	docStore driven.DocumentStore,
	embedder driven.EmbeddingService,
	tagger driving.TaggerService,
	splitter *chunker.Chunker,
) *IngestService {
	return &IngestService{
		docStore: docStore,
		embedder: embedder,
		tagger:   tagger,
		splitter: splitter,
	}
}

// Ingest processes and stores a document with its chunks and embeddings.
//
// The stored tag is the auto-tagger's answer when it is confident;
// otherwise an uploader-supplied tag wins, falling back to the tagger's
// low-confidence default.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("%w: document content is empty", domain.ErrInvalidInput)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: document title is required", domain.ErrInvalidInput)
	}

	tag, confidence, err := s.tagger.Tag(ctx, req.Content)
	if err != nil {
		return nil, fmt.Errorf("auto-tag: %w", err)
	}

	if confidence < s.tagger.Threshold() && req.Tag != "" {
		logger.Debug("ingest: auto-tag %q below threshold (%.2f), using supplied tag %q",
			tag, confidence, req.Tag)
		tag = req.Tag
	}

	windows := s.splitter.Split(req.Content)
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: document produced no chunks", domain.ErrInvalidInput)
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, windows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	if len(embeddings) != len(windows) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingFailure, len(embeddings), len(windows))
	}

	dims := s.embedder.Dimensions()
	for i, emb := range embeddings {
		if len(emb) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(emb), dims)
		}
	}

	doc := &domain.Document{
		ID:            uuid.New().String(),
		Title:         req.Title,
		SourceName:    req.SourceName,
		ContentType:   req.ContentType,
		Content:       req.Content,
		Tag:           tag,
		TagConfidence: confidence,
		CaseID:        req.CaseID,
		Metadata:      req.Metadata,
		CreatedAt:     time.Now().UTC(),
	}

	chunks := make([]domain.Chunk, len(windows))
	for i, window := range windows {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Position:   i,
			Content:    window,
			Embedding:  embeddings[i],
		}
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: save document: %v", domain.ErrStoreFailure, err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		// Remove the bare document so no partially ingested record is queryable
		if delErr := s.docStore.DeleteDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("ingest: cleanup of partially ingested document %s failed: %v", doc.ID, delErr)
		}
		return nil, fmt.Errorf("%w: save chunks: %v", domain.ErrStoreFailure, err)
	}

	logger.Info("ingest: stored document %s (%d chunks, tag %q)", doc.ID, len(chunks), tag)

	return &driving.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		Tag:        tag,
		Confidence: confidence,
	}, nil
}

// Delete removes a document and, transitively, its chunks and embeddings.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// Get retrieves a stored document.
func (s *IngestService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	return s.docStore.GetDocument(ctx, documentID)
}

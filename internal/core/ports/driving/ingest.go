package driving

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// IngestRequest describes a document to ingest into the retrieval pipeline.
type IngestRequest struct {
	// Title is the human-readable title (required).
	Title string

	// Content is the full document text (required, non-empty).
	Content string

	// Tag is an optional uploader-supplied tag. It overrides the auto-tag
	// only when the auto-tagger's confidence is below the configured
	// threshold.
	Tag string

	// CaseID optionally associates the document with a case.
	CaseID string

	// SourceName is the original filename, when the text came from an upload.
	SourceName string

	// ContentType is the MIME type of the original upload.
	ContentType string

	// Metadata contains arbitrary key-value pairs stored with the document.
	Metadata map[string]any
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	// DocumentID is the stored document's ID.
	DocumentID string

	// ChunkCount is the number of chunks (and embeddings) stored.
	ChunkCount int

	// Tag is the tag the document was stored with.
	Tag string

	// Confidence is the auto-tagger's confidence for its own suggestion.
	Confidence float64
}

// IngestService runs the ingestion pipeline: tag, chunk, embed, store.
type IngestService interface {
	// Ingest processes and stores a document with its chunks and embeddings.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// Delete removes a document and, transitively, its chunks and embeddings.
	Delete(ctx context.Context, documentID string) error

	// Get retrieves a stored document.
	Get(ctx context.Context, documentID string) (*domain.Document, error)
}

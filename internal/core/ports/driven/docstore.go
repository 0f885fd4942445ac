package driven

import (
	"context"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

// DocumentStore persists documents, chunks and their embeddings, and serves
// similarity search. Backed by Postgres with the vector extension in
// production; SQLite and in-memory implementations exist for local use and
// tests.
//
// Invariants the implementations must uphold:
//   - every chunk belongs to exactly one document
//   - every stored chunk carries exactly one embedding
//   - deleting a document transitively removes its chunks and embeddings
type DocumentStore interface {
	// SaveDocument stores a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks (with embeddings) for a document.
	// On failure the caller's document record is removed so no partially
	// ingested document remains queryable.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and, transitively, its chunks
	// and embeddings.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents, optionally filtered by case.
	ListDocuments(ctx context.Context, caseID string) ([]domain.Document, error)

	// SearchSimilar returns up to opts.TopK chunks ordered by cosine
	// similarity to the query vector, each carrying its parent document's
	// metadata. An empty index or a filter matching nothing yields an empty
	// slice, not an error. Equal scores keep insertion order.
	SearchSimilar(ctx context.Context, query []float32, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error)

	// Close releases resources.
	Close() error
}

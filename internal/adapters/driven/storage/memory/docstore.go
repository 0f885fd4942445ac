// Package memory provides in-memory driven adapters for tests and local
// development.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	order     []string // document insertion order, for stable search results
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks stores chunks for a document.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	s.chunks[docID] = chunks
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := make([]domain.Chunk, len(s.chunks[documentID]))
	copy(chunks, s.chunks[documentID])
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Position < chunks[j].Position })
	return chunks, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	for i, docID := range s.order {
		if docID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListDocuments returns all documents, optionally filtered by case.
func (s *DocumentStore) ListDocuments(_ context.Context, caseID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, id := range s.order {
		doc := s.documents[id]
		if caseID == "" || doc.CaseID == caseID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// SearchSimilar scans all candidate chunks and ranks them by cosine
// similarity. Equal scores keep insertion order.
func (s *DocumentStore) SearchSimilar(_ context.Context, query []float32, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.RetrievedChunk{}
	for _, docID := range s.order {
		doc := s.documents[docID]
		if opts.Tag != "" && doc.Tag != opts.Tag {
			continue
		}
		if opts.CaseID != "" && doc.CaseID != opts.CaseID {
			continue
		}
		for _, chunk := range s.chunks[docID] {
			if len(chunk.Embedding) != len(query) {
				continue
			}
			results = append(results, domain.RetrievedChunk{
				Chunk:         chunk,
				DocumentTitle: doc.Title,
				DocumentTag:   doc.Tag,
				CaseID:        doc.CaseID,
				Similarity:    cosineSimilarity(query, chunk.Embedding),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Close releases resources (no-op for memory store).
func (s *DocumentStore) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity of two equal-length vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

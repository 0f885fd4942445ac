package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(tag, caseID string) *domain.Document {
	return &domain.Document{
		ID:            uuid.New().String(),
		Title:         "Original petition",
		SourceName:    "petition.pdf",
		ContentType:   "application/pdf",
		Content:       "petition for divorce",
		Tag:           tag,
		TagConfidence: 0.9,
		CaseID:        caseID,
		Metadata:      map[string]any{"pages": float64(3)},
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func testChunks(docID string, embeddings ...[]float32) []domain.Chunk {
	chunks := make([]domain.Chunk, len(embeddings))
	for i, emb := range embeddings {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: docID,
			Position:   i,
			Content:    "chunk content",
			Embedding:  emb,
		}
	}
	return chunks
}

func TestStore_SaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument(domain.TagPetition, "case-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Tag, got.Tag)
	assert.Equal(t, doc.CaseID, got.CaseID)
	assert.Equal(t, doc.Metadata, got.Metadata)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveDocument_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument(domain.TagDefault, "")
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.Title = "Amended petition"
	doc.Tag = domain.TagPetition
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amended petition", got.Title)
	assert.Equal(t, domain.TagPetition, got.Tag)
}

func TestStore_SaveAndGetChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument(domain.TagPetition, "")
	require.NoError(t, store.SaveDocument(ctx, doc))

	chunks := testChunks(doc.ID, []float32{1, 0, 0}, []float32{0, 1, 0})
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, []float32{1, 0, 0}, got[0].Embedding)
	assert.Equal(t, 1, got[1].Position)
}

func TestStore_DeleteDocument_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := testDocument(domain.TagPetition, "")
	require.NoError(t, store.SaveDocument(ctx, doc))
	require.NoError(t, store.SaveChunks(ctx, testChunks(doc.ID, []float32{1, 0, 0})))

	require.NoError(t, store.DeleteDocument(ctx, doc.ID))

	_, err := store.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.ErrorIs(t, store.DeleteDocument(ctx, doc.ID), domain.ErrNotFound)
}

func TestStore_ListDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument(domain.TagPetition, "case-1")))
	require.NoError(t, store.SaveDocument(ctx, testDocument(domain.TagExample, "case-1")))
	require.NoError(t, store.SaveDocument(ctx, testDocument(domain.TagExample, "case-2")))

	all, err := store.ListDocuments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := store.ListDocuments(ctx, "case-1")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestStore_SearchSimilar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docA := testDocument(domain.TagPetition, "case-1")
	docA.Title = "Petition"
	require.NoError(t, store.SaveDocument(ctx, docA))
	require.NoError(t, store.SaveChunks(ctx, testChunks(docA.ID,
		[]float32{1, 0, 0}, []float32{0.9, 0.1, 0})))

	docB := testDocument(domain.TagOfficeAction, "case-2")
	docB.Title = "Office action"
	require.NoError(t, store.SaveDocument(ctx, docB))
	require.NoError(t, store.SaveChunks(ctx, testChunks(docB.ID, []float32{0, 1, 0})))

	results, err := store.SearchSimilar(ctx, []float32{1, 0, 0}, domain.RetrievalOptions{TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by descending cosine similarity.
	assert.Equal(t, "Petition", results[0].DocumentTitle)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestStore_SearchSimilar_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docA := testDocument(domain.TagPetition, "case-1")
	require.NoError(t, store.SaveDocument(ctx, docA))
	require.NoError(t, store.SaveChunks(ctx, testChunks(docA.ID, []float32{1, 0, 0})))

	docB := testDocument(domain.TagOfficeAction, "case-2")
	require.NoError(t, store.SaveDocument(ctx, docB))
	require.NoError(t, store.SaveChunks(ctx, testChunks(docB.ID, []float32{1, 0, 0})))

	byTag, err := store.SearchSimilar(ctx, []float32{1, 0, 0},
		domain.RetrievalOptions{Tag: domain.TagOfficeAction})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, domain.TagOfficeAction, byTag[0].DocumentTag)

	byCase, err := store.SearchSimilar(ctx, []float32{1, 0, 0},
		domain.RetrievalOptions{CaseID: "case-1"})
	require.NoError(t, err)
	require.Len(t, byCase, 1)
	assert.Equal(t, "case-1", byCase[0].CaseID)

	none, err := store.SearchSimilar(ctx, []float32{1, 0, 0},
		domain.RetrievalOptions{CaseID: "case-9"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_SearchSimilar_EmptyIndex(t *testing.T) {
	store := newTestStore(t)

	results, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, domain.RetrievalOptions{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

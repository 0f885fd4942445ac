package services

import (
	"context"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/domain"
	"github.com/lexpert-ai/lexpert/internal/core/ports/driven"
)

// In-package test doubles for the driven ports.

type fakeDocStore struct {
	docs   map[string]*domain.Document
	chunks map[string][]domain.Chunk

	saveDocErr    error
	saveChunksErr error
	deleteErr     error
	searchErr     error

	searchResults []domain.RetrievedChunk
	lastQuery     []float32
	lastOpts      domain.RetrievalOptions
	deleted       []string
}

var _ driven.DocumentStore = (*fakeDocStore)(nil)

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		docs:   make(map[string]*domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

func (f *fakeDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if f.saveDocErr != nil {
		return f.saveDocErr
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if f.saveChunksErr != nil {
		return f.saveChunksErr
	}
	for _, c := range chunks {
		f.chunks[c.DocumentID] = append(f.chunks[c.DocumentID], c)
	}
	return nil
}

func (f *fakeDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	return f.chunks[documentID], nil
}

func (f *fakeDocStore) DeleteDocument(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	delete(f.chunks, id)
	return nil
}

func (f *fakeDocStore) ListDocuments(_ context.Context, caseID string) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range f.docs {
		if caseID == "" || doc.CaseID == caseID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocStore) SearchSimilar(_ context.Context, query []float32, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error) {
	f.lastQuery = query
	f.lastOpts = opts
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeDocStore) Close() error { return nil }

type fakeEmbedder struct {
	dims     int
	embedErr error
	batchErr error

	batchShort bool
	lastTexts  []string
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder(dims int) *fakeEmbedder {
	return &fakeEmbedder{dims: dims}
}

func (f *fakeEmbedder) vector() []float32 {
	v := make([]float32, f.dims)
	for i := range v {
		v[i] = 0.1
	}
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.lastTexts = []string{text}
	return f.vector(), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.lastTexts = texts
	n := len(texts)
	if f.batchShort && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = f.vector()
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return f.dims }
func (f *fakeEmbedder) ModelName() string          { return "fake-embedding" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

type fakeLLM struct {
	response string
	genErr   error

	lastPrompt   string
	lastOpts     driven.GenerateOptions
	lastMessages []driven.ChatMessage
	lastChatOpts driven.ChatOptions
	calls        int
}

var _ driven.LLMService = (*fakeLLM)(nil)

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastOpts = opts
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.response, nil
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.calls++
	f.lastMessages = messages
	f.lastChatOpts = opts
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

type fakePromptStore struct {
	templates map[string]string
	loadErr   error
}

var _ driven.PromptStore = (*fakePromptStore)(nil)

func (f *fakePromptStore) Load(name string) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	if tpl, ok := f.templates[name]; ok {
		return tpl, nil
	}
	if name == driven.PromptAnswerSystem {
		return "", nil
	}
	return "Sources:\n%s\n\nQuestion: %s", nil
}

func (f *fakePromptStore) Reload() {}

type fakeBlobStore struct {
	exists    bool
	existsErr error
	createErr error
	uploadErr error
	signErr   error
	listErr   error

	listReturn []domain.BlobObject

	createdBuckets []string
	uploadedBucket string
	uploadedPath   string
	uploadedBody   []byte
	uploadedType   string
}

var _ driven.BlobStore = (*fakeBlobStore)(nil)

func (f *fakeBlobStore) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeBlobStore) CreateBucket(_ context.Context, bucket domain.Bucket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdBuckets = append(f.createdBuckets, bucket.Name)
	return nil
}

func (f *fakeBlobStore) Upload(_ context.Context, bucket, path string, content []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploadedBucket = bucket
	f.uploadedPath = path
	f.uploadedBody = content
	f.uploadedType = contentType
	return nil
}

func (f *fakeBlobStore) List(_ context.Context, _ string) ([]domain.BlobObject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listReturn, nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, bucket, path string, _ int) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example/" + bucket + "/" + path, nil
}

type fakeVerifier struct {
	identity *domain.Identity
	err      error
	calls    int
}

var _ driven.IdentityVerifier = (*fakeVerifier)(nil)

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*domain.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type recordingCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	sets    int
}

var _ driven.Cache = (*recordingCache)(nil)

func newRecordingCache() *recordingCache {
	return &recordingCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *recordingCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *recordingCache) Set(key string, value []byte, ttl time.Duration) {
	c.sets++
	c.entries[key] = value
	c.ttls[key] = ttl
}

func (c *recordingCache) Delete(key string) {
	delete(c.entries, key)
	delete(c.ttls, key)
}

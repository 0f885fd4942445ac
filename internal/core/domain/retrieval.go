package domain

// RetrievalOptions configures a similarity search.
type RetrievalOptions struct {
	// TopK is the maximum number of chunks to return. Defaults to 5.
	TopK int

	// Tag filters results to documents carrying this tag. Empty means no filter.
	Tag string

	// CaseID filters results to documents for this case. Empty means no filter.
	CaseID string
}

// DefaultTopK is the retrieval depth when RetrievalOptions.TopK is unset.
const DefaultTopK = 5

// RetrievedChunk is a similarity search hit carrying its parent document's
// metadata alongside the matched chunk.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// DocumentTitle is the parent document's title.
	DocumentTitle string

	// DocumentTag is the parent document's tag.
	DocumentTag string

	// CaseID is the parent document's case association.
	CaseID string

	// Similarity is the cosine similarity score.
	Similarity float64
}

// Answer is a grounded natural-language response with its sources.
type Answer struct {
	// Text is the generated answer, or the fixed insufficient-information
	// message when no chunks were retrieved.
	Text string

	// Sources are the chunks the answer is grounded in, in retrieval order.
	// Empty when the answer is the insufficient-information message.
	Sources []RetrievedChunk

	// ProcessingSeconds is the wall-clock time spent answering.
	ProcessingSeconds float64
}

// InsufficientInformation is returned when retrieval produced no chunks.
// The answerer must not fall back to unguided model knowledge.
const InsufficientInformation = "I couldn't find any relevant information in the database " +
	"to answer your question. Please try a different question " +
	"or upload relevant documents first."

package domain

import "time"

// Document represents an ingested legal document with metadata.
// Content is the full text before chunking. A document is immutable once
// stored except for tag correction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// SourceName is the original filename as supplied by the uploader.
	SourceName string

	// ContentType is the MIME type of the original upload.
	ContentType string

	// Content is the full text content.
	Content string

	// Tag is the document-type classification (see Tag constants).
	Tag string

	// TagConfidence is the auto-tagger's confidence for Tag, in [0,1].
	TagConfidence float64

	// CaseID associates the document with a case. Empty when unassociated.
	CaseID string

	// Path is the blob storage object path, when the document came from an upload.
	Path string

	// URL is the derived access URL for the stored blob, when available.
	URL string

	// Size is the original upload size in bytes.
	Size int64

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is a bounded-size text window derived from a document. It is the
// unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the fixed-dimension vector representation.
	// Exactly one embedding is stored per chunk.
	Embedding []float32
}

// Supported document tags. The set is closed; documents that match no
// exemplar phrases receive TagDefault at low confidence.
const (
	TagPetition     = "petition"
	TagOfficeAction = "office_action"
	TagExample      = "example"
	TagDefault      = "document"
)

// SupportedTags lists the closed tag set in lexical order, which is also
// the tie-break order for the auto-tagger.
func SupportedTags() []string {
	return []string{TagExample, TagOfficeAction, TagPetition}
}

// TagSuggestion is an auto-tagger candidate with its confidence score.
type TagSuggestion struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

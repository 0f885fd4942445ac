// Package chunker provides fixed-size token windowing with overlap.
// Windows are the unit of embedding and retrieval.
package chunker

import "strings"

// DefaultChunkSize is the default number of tokens per window.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of tokens shared between
// consecutive windows.
const DefaultOverlap = 50

// Chunker splits document text into bounded-size overlapping windows.
// Splitting is deterministic for identical input and configuration.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in tokens.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window a positive stride
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size in tokens.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in tokens.
func (c *Chunker) Overlap() int { return c.overlap }

// Split windows the text into overlapping token runs. Tokens are
// whitespace-delimited words. The final window may be shorter than the
// configured size; no window is empty. Empty or whitespace-only input
// produces no windows.
func (c *Chunker) Split(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	estimated := (len(tokens) / stride) + 1
	windows := make([]string, 0, estimated)

	for start := 0; start < len(tokens); start += stride {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		windows = append(windows, strings.Join(tokens[start:end], " "))

		if end == len(tokens) {
			break
		}
	}

	return windows
}

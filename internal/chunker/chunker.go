// Package chunker provides fixed-size overlapping text splitting.
package chunker

import (
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping bytes between
// consecutive chunks, so a fact spanning a boundary still appears whole
// in at least one chunk.
const DefaultOverlap = 200

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// Splitter cuts text into chunks of roughly chunkSize bytes with a fixed
// overlap. Splitting depends only on the input and the configuration, so
// the same text always yields the same chunk sequence.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay below the chunk size or the cursor cannot advance
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split returns the ordered chunk texts. Empty input yields nil; input
// shorter than the chunk size yields a single chunk equal to the whole
// text.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	step := s.chunkSize - s.overlap

	chunks := make([]string, 0, textLen/step+1)
	for start := 0; start < textLen; start += step {
		end := start + s.chunkSize
		if end > textLen {
			end = textLen
		}
		chunks = append(chunks, text[start:end])
		if end == textLen {
			break
		}
	}

	return chunks
}

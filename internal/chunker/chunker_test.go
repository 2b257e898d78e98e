package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, s.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		s := New(WithChunkSize(500))
		if s.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", s.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		s := New(WithOverlap(100))
		if s.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", s.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.chunkSize)
		}
		if s.overlap != DefaultOverlap {
			t.Errorf("expected default overlap, got %d", s.overlap)
		}
	})
}

func TestSplit_Empty(t *testing.T) {
	s := New()
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_ShorterThanChunkSize(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	text := "This is a small piece of content."

	chunks := s.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for short text, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected chunk to equal the whole text")
	}
}

func TestSplit_Overlap(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(4))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-4:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's tail: %q vs %q", i, chunks[i], tail)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 40)

	first := s.Split(text)
	for i := 0; i < 5; i++ {
		again := s.Split(text)
		if len(again) != len(first) {
			t.Fatalf("run %d: chunk count changed from %d to %d", i, len(first), len(again))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: chunk %d differs", i, j)
			}
		}
	}
}

func TestSplit_CoverageReconstructsText(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		text    string
	}{
		{"no overlap", 10, 0, strings.Repeat("0123456789", 7)},
		{"with overlap", 10, 4, "abcdefghijklmnopqrstuvwxyz0123456789"},
		{"uneven tail", 16, 5, strings.Repeat("studyrag ", 13)},
		{"single chunk", 1000, 200, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			chunks := s.Split(tt.text)

			// Rebuild the text from each chunk's non-overlapping span.
			step := s.ChunkSize() - s.Overlap()
			var b strings.Builder
			end := 0
			for i, c := range chunks {
				start := i * step
				skip := end - start
				if skip < 0 {
					t.Fatalf("gap before chunk %d", i)
				}
				b.WriteString(c[skip:])
				end = start + len(c)
			}

			if b.String() != tt.text {
				t.Errorf("reconstructed text differs from input")
			}
		})
	}
}

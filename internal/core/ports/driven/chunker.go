package driven

// Chunker splits extracted text into overlapping passages sized for
// embedding. Splitting is a pure function of the text and configuration:
// identical inputs always produce identical output, which makes
// re-ingestion idempotent.
type Chunker interface {
	// Split returns the ordered chunk texts. Empty input yields nil.
	// Text shorter than the chunk size yields a single chunk equal to
	// the whole text.
	Split(text string) []string
}

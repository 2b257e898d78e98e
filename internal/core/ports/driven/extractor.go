package driven

import "context"

// Extractor converts raw file bytes of one format into plain UTF-8 text.
// Reading order is preserved: page order for PDF, paragraph order for DOCX.
// Empty output is valid (e.g. an image-only PDF); downstream components
// decide what to do with an empty document.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Extract produces plain text from raw bytes.
	// A malformed file yields an error wrapping domain.ErrExtractionFailed.
	Extract(ctx context.Context, data []byte) (string, error)
}

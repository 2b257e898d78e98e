// Package extractor dispatches raw file bytes to a format-specific text
// extractor.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
)

// MIME types for the supported upload formats.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Registry selects an extractor by declared MIME type.
type Registry struct {
	byMIME map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byMIME: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, mime := range e.SupportedMIMETypes() {
			r.byMIME[mime] = e
		}
	}
	return r
}

// ForType returns the extractor for a declared MIME type.
// Unknown types fail with domain.ErrUnsupportedFileType.
func (r *Registry) ForType(fileType string) (driven.Extractor, error) {
	e, ok := r.byMIME[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fileType)
	}
	return e, nil
}

// MIMEForPath maps a file extension to its MIME type.
// The second return is false for extensions outside the supported set.
func MIMEForPath(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MIMETypePDF, true
	case ".docx":
		return MIMETypeDOCX, true
	default:
		return "", false
	}
}

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studyrag/internal/core/domain"
	"github.com/custodia-labs/studyrag/internal/extractor/docx"
	"github.com/custodia-labs/studyrag/internal/extractor/pdf"
)

func TestRegistry_ForType(t *testing.T) {
	r := NewRegistry(pdf.New(), docx.New())

	e, err := r.ForType(MIMETypePDF)
	require.NoError(t, err)
	assert.NotNil(t, e)

	e, err = r.ForType(MIMETypeDOCX)
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func TestRegistry_ForType_Unsupported(t *testing.T) {
	r := NewRegistry(pdf.New(), docx.New())

	_, err := r.ForType("text/html")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestMIMEForPath(t *testing.T) {
	tests := []struct {
		path string
		mime string
		ok   bool
	}{
		{"/u/files/notes.pdf", MIMETypePDF, true},
		{"/u/files/NOTES.PDF", MIMETypePDF, true},
		{"/u/files/essay.docx", MIMETypeDOCX, true},
		{"/u/files/todo.txt", "", false},
		{"/u/files/noext", "", false},
	}

	for _, tt := range tests {
		mime, ok := MIMEForPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.mime, mime, tt.path)
	}
}

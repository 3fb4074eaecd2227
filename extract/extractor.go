package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/resumedex/core"
)

var (
	// ErrUnsupportedFormat indicates a file extension with no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoText indicates a file that parsed but yielded no text at all.
	ErrNoText = errors.New("no extractable text")
)

// Extractor produces a RawDocument from a file on disk. Implementations are
// allowed to return partial text; degenerate output is filtered downstream
// by the loader, not here.
type Extractor interface {
	Extract(path string) (*core.RawDocument, error)
}

// SupportedExtensions lists the file extensions the package can handle,
// lowercase with leading dot.
var SupportedExtensions = []string{".pdf", ".doc", ".docx"}

// Eligible reports whether path has a supported extension.
func Eligible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ForPath returns the extractor for the file's extension.
// Returns ErrUnsupportedFormat for anything outside SupportedExtensions.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DocxExtractor{}, nil
	case ".doc":
		return &DocExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// newRawDocument builds a RawDocument with the standard metadata fields.
func newRawDocument(path, text string) *core.RawDocument {
	return &core.RawDocument{
		SourcePath: path,
		Text:       text,
		Metadata: map[string]string{
			"file_name": filepath.Base(path),
			"file_path": path,
			"extension": strings.ToLower(filepath.Ext(path)),
		},
	}
}

package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/resumedex/core"
)

// PDFExtractor extracts the plain-text layer of a PDF file.
type PDFExtractor struct{}

var _ Extractor = (*PDFExtractor)(nil)

// Extract reads the text content of the PDF at path.
// The underlying parser panics on some malformed files; those panics are
// converted into errors so a single bad resume never takes down a batch.
func (e *PDFExtractor) Extract(path string) (doc *core.RawDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdf parse panic in %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("read pdf text %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("read pdf text %s: %w", path, err)
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, path)
	}

	return newRawDocument(path, buf.String()), nil
}

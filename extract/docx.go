package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/resumedex/core"
)

// DocxExtractor extracts text from the main document part of a .docx file.
// A .docx is a zip archive; the visible text lives in word/document.xml as
// runs of <w:t> elements grouped into <w:p> paragraphs.
type DocxExtractor struct{}

var _ Extractor = (*DocxExtractor)(nil)

// Extract reads the text content of the .docx at path.
func (e *DocxExtractor) Extract(path string) (*core.RawDocument, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return nil, fmt.Errorf("%w: %s has no word/document.xml", ErrNoText, path)
	}

	rc, err := document.Open()
	if err != nil {
		return nil, fmt.Errorf("open document part %s: %w", path, err)
	}
	defer rc.Close()

	text, err := collectDocumentText(rc)
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, path)
	}

	return newRawDocument(path, text), nil
}

// collectDocumentText walks the WordprocessingML token stream, keeping the
// character data inside <w:t> runs and inserting breaks for paragraphs,
// tabs, and explicit line breaks.
func collectDocumentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

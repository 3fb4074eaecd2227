package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	cases := map[string]bool{
		"resume.pdf":      true,
		"resume.PDF":      true,
		"resume.docx":     true,
		"resume.doc":      true,
		"resume.txt":      false,
		"resume.pdf.bak":  false,
		"no_extension":    false,
		"archive.tar.doc": true,
	}
	for path, want := range cases {
		assert.Equal(t, want, Eligible(path), path)
	}
}

func TestForPath(t *testing.T) {
	t.Run("pdf", func(t *testing.T) {
		e, err := ForPath("a.pdf")
		require.NoError(t, err)
		assert.IsType(t, &PDFExtractor{}, e)
	})

	t.Run("docx", func(t *testing.T) {
		e, err := ForPath("a.docx")
		require.NoError(t, err)
		assert.IsType(t, &DocxExtractor{}, e)
	})

	t.Run("doc", func(t *testing.T) {
		e, err := ForPath("a.doc")
		require.NoError(t, err)
		assert.IsType(t, &DocExtractor{}, e)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := ForPath("a.txt")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

// writeDocx creates a minimal .docx file with the given paragraphs.
func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	part, err := w.Create("word/document.xml")
	require.NoError(t, err)

	body := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	body += `</w:body></w:document>`

	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestDocxExtractor(t *testing.T) {
	dir := t.TempDir()

	t.Run("extracts paragraphs", func(t *testing.T) {
		path := filepath.Join(dir, "resume.docx")
		writeDocx(t, path, "Jane Doe", "Senior Backend Engineer", "Go, Postgres, Kubernetes")

		doc, err := (&DocxExtractor{}).Extract(path)
		require.NoError(t, err)
		assert.Contains(t, doc.Text, "Jane Doe")
		assert.Contains(t, doc.Text, "Senior Backend Engineer")
		assert.Contains(t, doc.Text, "Go, Postgres, Kubernetes")
		assert.Equal(t, "resume.docx", doc.Metadata["file_name"])
		assert.Equal(t, path, doc.Metadata["file_path"])
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(dir, "broken.docx")
		require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0644))

		_, err := (&DocxExtractor{}).Extract(path)
		assert.Error(t, err)
	})

	t.Run("zip without document part", func(t *testing.T) {
		path := filepath.Join(dir, "empty.docx")
		f, err := os.Create(path)
		require.NoError(t, err)
		w := zip.NewWriter(f)
		require.NoError(t, w.Close())
		require.NoError(t, f.Close())

		_, err = (&DocxExtractor{}).Extract(path)
		assert.ErrorIs(t, err, ErrNoText)
	})
}

func TestDocExtractor(t *testing.T) {
	dir := t.TempDir()

	t.Run("recovers UTF-16 text runs", func(t *testing.T) {
		content := []byte{0xd0, 0xcf, 0x11, 0xe0, 0x00, 0x01} // OLE magic prefix
		for _, r := range "Experienced Python developer with ML background" {
			content = append(content, byte(r), 0x00)
		}
		content = append(content, 0xff, 0xff, 0x03)

		path := filepath.Join(dir, "resume.doc")
		require.NoError(t, os.WriteFile(path, content, 0644))

		doc, err := (&DocExtractor{}).Extract(path)
		require.NoError(t, err)
		assert.Contains(t, doc.Text, "Experienced Python developer")
	})

	t.Run("recovers 8-bit text runs", func(t *testing.T) {
		content := append([]byte{0x00, 0x01, 0x02}, []byte("Java backend developer, Spring Boot")...)
		content = append(content, 0x00, 0xfe)

		path := filepath.Join(dir, "legacy.doc")
		require.NoError(t, os.WriteFile(path, content, 0644))

		doc, err := (&DocExtractor{}).Extract(path)
		require.NoError(t, err)
		assert.Contains(t, doc.Text, "Java backend developer")
	})

	t.Run("pure binary yields no text", func(t *testing.T) {
		path := filepath.Join(dir, "junk.doc")
		require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03, 0xff}, 0644))

		_, err := (&DocExtractor{}).Extract(path)
		assert.ErrorIs(t, err, ErrNoText)
	})
}

func TestPDFExtractorBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a real pdf"), 0644))

	_, err := (&PDFExtractor{}).Extract(path)
	assert.Error(t, err)
}

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCleanDocument(t *testing.T) {
	valid := func() *CleanDocument {
		return &CleanDocument{
			Id:       IDFromContent("/resumes/a.pdf"),
			FileName: "a.pdf",
			FilePath: "/resumes/a.pdf",
			Text:     "Backend engineer with Go and Postgres experience.",
		}
	}

	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateCleanDocument(valid()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateCleanDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty file name", func(t *testing.T) {
		doc := valid()
		doc.FileName = ""
		err := ValidateCleanDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyFileName)
	})

	t.Run("text too short", func(t *testing.T) {
		doc := valid()
		doc.Text = "ok"
		err := ValidateCleanDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("whitespace padding does not count", func(t *testing.T) {
		doc := valid()
		doc.Text = "   short    \n\t  "
		err := ValidateCleanDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("invalid UTF-8", func(t *testing.T) {
		doc := valid()
		doc.Text = "broken \xff\xfe bytes inside longer text"
		err := ValidateCleanDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestHasUsableText(t *testing.T) {
	t.Run("exactly at threshold is excluded", func(t *testing.T) {
		assert.False(t, HasUsableText(strings.Repeat("x", MinTextLength)))
	})

	t.Run("one over threshold is included", func(t *testing.T) {
		assert.True(t, HasUsableText(strings.Repeat("x", MinTextLength+1)))
	})

	t.Run("empty", func(t *testing.T) {
		assert.False(t, HasUsableText(""))
	})
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum trimmed text length for a document to be
// considered usable. Documents at or below this length are degenerate
// (failed extractions, scanned images with no text layer) and are filtered
// out during loading.
const MinTextLength = 10

// ValidateCleanDocument validates a CleanDocument according to domain rules.
//
// Validation rules:
//   - FileName must not be empty
//   - Text must be valid UTF-8
//   - trimmed Text length must exceed MinTextLength
//
// NOT validated:
//   - FilePath (may be reconstructed by the formatter from a base directory)
//   - Metadata (free-form)
func ValidateCleanDocument(doc *CleanDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.FileName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	if !utf8.ValidString(doc.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidEncoding)
	}

	if !HasUsableText(doc.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	return nil
}

// HasUsableText reports whether text survives the degenerate-document filter:
// more than MinTextLength characters after trimming whitespace.
func HasUsableText(text string) bool {
	return len(strings.TrimSpace(text)) > MinTextLength
}

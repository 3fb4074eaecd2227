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

// Package format turns scored documents into presentable query results with
// bounded text previews.
package format

import (
	"path/filepath"
	"strings"

	"github.com/poiesic/resumedex/core"
)

// DefaultPreviewBudget is the maximum preview length in runes.
const DefaultPreviewBudget = 300

// UnknownField is used when a document carries no usable name or path.
const UnknownField = "unknown"

// Formatter converts scored documents into query results.
type Formatter struct {
	previewBudget int
	baseDir       string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithPreviewBudget sets the maximum preview length in runes.
// Non-positive values fall back to the default.
func WithPreviewBudget(budget int) Option {
	return func(f *Formatter) {
		if budget > 0 {
			f.previewBudget = budget
		}
	}
}

// WithBaseDir sets the directory used to derive a path for documents that
// have a file name but no recorded path.
func WithBaseDir(dir string) Option {
	return func(f *Formatter) {
		f.baseDir = dir
	}
}

// New creates a Formatter.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		previewBudget: DefaultPreviewBudget,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result converts a single scored document into a query result.
func (f *Formatter) Result(scored core.ScoredDocument) core.QueryResult {
	doc := scored.Document

	filename := doc.FileName
	if filename == "" {
		filename = UnknownField
	}

	filePath := doc.FilePath
	if filePath == "" {
		if doc.FileName != "" && f.baseDir != "" {
			filePath = filepath.Join(f.baseDir, doc.FileName)
		} else {
			filePath = UnknownField
		}
	}

	return core.QueryResult{
		Filename: filename,
		FilePath: filePath,
		Score:    scored.Score,
		Preview:  f.Preview(doc.Text),
		FullText: doc.Text,
	}
}

// Results converts scored documents in order.
func (f *Formatter) Results(scored []core.ScoredDocument) []core.QueryResult {
	results := make([]core.QueryResult, len(scored))
	for i, s := range scored {
		results[i] = f.Result(s)
	}
	return results
}

// Preview produces a single-line excerpt of at most the preview budget in
// runes, with an ellipsis appended when the text was truncated. Runs of
// whitespace, including newlines, collapse to single spaces.
func (f *Formatter) Preview(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")

	runes := []rune(collapsed)
	if len(runes) <= f.previewBudget {
		return collapsed
	}
	return string(runes[:f.previewBudget]) + "..."
}

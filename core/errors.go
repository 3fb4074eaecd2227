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

import "errors"

// Pipeline failure taxonomy. These are the conditions callers are expected
// to branch on; per-file extraction failures are recovered locally by the
// loader and never surface as errors.
var (
	// ErrPathNotFound indicates the source directory does not exist.
	// Fatal to the run; reported before any processing starts.
	ErrPathNotFound = errors.New("path not found")

	// ErrIndexBuildFailed indicates embedding generation failed during index
	// construction. The build attempt is abandoned and nothing is persisted.
	ErrIndexBuildFailed = errors.New("index build failed")

	// ErrIndexCorrupt indicates a persisted index could not be read or is
	// internally inconsistent. Recovered by rebuilding from documents.
	ErrIndexCorrupt = errors.New("persisted index corrupt")

	// ErrBackendUnavailable indicates the embedding/synthesis backend could
	// not be reached at query time. The query may be retried.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a CleanDocument failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyText indicates the Text field is empty or too short.
	ErrEmptyText = errors.New("document text is empty or too short")

	// ErrInvalidEncoding indicates text that does not encode as valid UTF-8.
	ErrInvalidEncoding = errors.New("document text is not valid UTF-8")

	// ErrEmptyFileName indicates the FileName field is empty.
	ErrEmptyFileName = errors.New("document file name cannot be empty")
)

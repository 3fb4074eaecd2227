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

package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/extract"
	"github.com/poiesic/resumedex/sanitize"
	"github.com/poiesic/resumedex/storage"
)

// extractFunc resolves and runs the extractor for one file.
type extractFunc func(path string) (*core.RawDocument, error)

// Loader extracts, sanitizes, and caches documents from a source directory.
type Loader struct {
	cache     storage.DocumentCache
	sanitizer *sanitize.Sanitizer
	extract   extractFunc
	poolSize  int
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithSanitizer sets a custom sanitizer.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(l *Loader) error {
		if s == nil {
			return errors.New("sanitizer must not be nil")
		}
		l.sanitizer = s
		return nil
	}
}

// withExtractFunc overrides file extraction. Test hook.
func withExtractFunc(fn extractFunc) Option {
	return func(l *Loader) error {
		l.extract = fn
		return nil
	}
}

// NewLoader creates a document loader backed by the given cache.
func NewLoader(cache storage.DocumentCache, opts ...Option) (*Loader, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	l := &Loader{
		cache:     cache,
		sanitizer: sanitize.New(),
		extract:   defaultExtract,
		poolSize:  poolSize,
		logger:    slog.Default().With("component", "loader"),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load returns the cleaned document set for the source directory.
//
// Cached extractions are reused as long as the directory's manifest (file
// names, sizes, and modification times) is unchanged. Otherwise every
// eligible file is re-extracted, sanitized, and the cache is refreshed.
//
// Files that yield no usable text are skipped with a warning; they never
// fail the load. The returned set's document order follows the sorted file
// names of the directory listing.
func (l *Loader) Load(ctx context.Context, dir, cacheKey string) (*core.DocumentSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrPathNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrPathNotFound, dir)
	}

	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	digest := manifestDigest(files)

	cached, err := l.cache.LoadDocuments(ctx, cacheKey)
	if err == nil && cached.Digest == digest {
		l.logger.Info("using cached documents", "documents", len(cached.Documents), "dir", dir)
		return cached, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		l.logger.Warn("document cache unreadable, re-extracting", "err", err)
	}
	if err == nil {
		l.logger.Info("source directory changed, re-extracting",
			"cachedDigest", cached.Digest, "digest", digest)
	}

	documents, err := l.extractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	set := &core.DocumentSet{
		Digest:    digest,
		CreatedAt: time.Now().UTC(),
		Documents: documents,
	}

	if err := l.cache.SaveDocuments(ctx, cacheKey, set); err != nil {
		// The set is still usable; the next run just re-extracts.
		l.logger.Warn("failed to cache documents", "err", err)
	}

	l.logger.Info("documents loaded", "eligible", len(files), "usable", len(documents))
	return set, nil
}

// extractAll runs extraction concurrently, preserving file order.
func (l *Loader) extractAll(ctx context.Context, files []sourceFile) ([]core.CleanDocument, error) {
	pool, err := ants.NewPool(l.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]*core.CleanDocument, len(files))
	var wg sync.WaitGroup

	var submitErr error
	for i, file := range files {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			results[i] = l.processFile(file)
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}

	wg.Wait()
	if submitErr != nil {
		return nil, submitErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	documents := make([]core.CleanDocument, 0, len(files))
	for _, doc := range results {
		if doc != nil {
			documents = append(documents, *doc)
		}
	}
	return documents, nil
}

// processFile extracts and sanitizes one file.
// Returns nil when the file yields no usable document.
func (l *Loader) processFile(file sourceFile) *core.CleanDocument {
	raw, err := l.extract(file.path)
	if err != nil {
		l.logger.Warn("skipping file, extraction failed", "file", file.name, "err", err)
		return nil
	}

	doc := &core.CleanDocument{
		Id:       core.IDFromContent(file.name),
		FileName: file.name,
		FilePath: file.path,
		Text:     l.sanitizer.Clean(raw.Text),
		Metadata: raw.Metadata,
	}

	if err := core.ValidateCleanDocument(doc); err != nil {
		l.logger.Warn("skipping file, no usable text", "file", file.name, "err", err)
		return nil
	}
	return doc
}

func defaultExtract(path string) (*core.RawDocument, error) {
	extractor, err := extract.ForPath(path)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(path)
}

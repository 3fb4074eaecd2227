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

package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/resumedex/ai"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/storage"
)

// Store builds, persists, and loads vector indexes for document sets.
//
// A persisted index is reused only when its metadata matches the current
// embedding model and the fingerprint of the document set it was built from.
// Any mismatch, and any unreadable snapshot, triggers a rebuild.
type Store struct {
	embedder    ai.Embedder
	repo        storage.IndexRepository
	model       string
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithBatchSize sets the number of documents embedded per API call.
func WithBatchSize(size int) Option {
	return func(s *Store) error {
		if size <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		s.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for embedding calls.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *Store) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		s.maxAttempts = maxAttempts
		s.baseDelay = baseDelay
		return nil
	}
}

// WithProgressWriter enables progress reporting during builds.
func WithProgressWriter(w io.Writer) Option {
	return func(s *Store) error {
		s.progress = w
		return nil
	}
}

// NewStore creates an index store.
// model identifies the embedding model and is pinned into index metadata.
func NewStore(embedder ai.Embedder, repo storage.IndexRepository, model string, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if model == "" {
		return nil, errors.New("embedding model name required")
	}

	s := &Store{
		embedder:    embedder,
		repo:        repo,
		model:       model,
		batchSize:   32,
		maxAttempts: 3,
		baseDelay:   time.Second,
		logger:      slog.Default().With("component", "index-store"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BuildOrLoad returns a usable index for the document set, loading the
// persisted one when it is still valid and rebuilding otherwise.
func (s *Store) BuildOrLoad(ctx context.Context, set *core.DocumentSet) (*Index, error) {
	snapshot, err := s.repo.LoadIndex(ctx)
	switch {
	case err == nil:
		if s.snapshotValid(snapshot, set) {
			s.logger.Info("loaded persisted index",
				"documents", snapshot.Meta.DocumentCount,
				"model", snapshot.Meta.EmbeddingModel)
			return FromSnapshot(snapshot), nil
		}
		s.logger.Info("persisted index is stale, rebuilding",
			"storedModel", snapshot.Meta.EmbeddingModel,
			"storedFingerprint", snapshot.Meta.Fingerprint,
			"wantFingerprint", set.Digest)
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no persisted index, building")
	default:
		// Unreadable snapshots are treated as absent.
		s.logger.Warn("persisted index unreadable, rebuilding", "err", err)
	}

	return s.Rebuild(ctx, set)
}

// Rebuild embeds the document set and persists a fresh index, replacing any
// existing one. If embedding fails, nothing is written. Callers should treat
// a Rebuild error as "no usable index".
func (s *Store) Rebuild(ctx context.Context, set *core.DocumentSet) (*Index, error) {
	vectors, err := s.embedAll(ctx, set.Documents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrIndexBuildFailed, err)
	}

	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	snapshot := &core.IndexSnapshot{
		Meta: core.IndexMeta{
			EmbeddingModel: s.model,
			Dimension:      dimension,
			Fingerprint:    set.Digest,
			DocumentCount:  len(set.Documents),
			BuiltAt:        time.Now().UTC(),
		},
		Entries: make([]core.IndexedDocument, len(set.Documents)),
	}
	for i, doc := range set.Documents {
		snapshot.Entries[i] = core.IndexedDocument{
			Document: doc,
			Vector:   vectors[i],
		}
	}

	if err := s.repo.SaveIndex(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("%w: persisting index: %w", core.ErrIndexBuildFailed, err)
	}

	s.logger.Info("index built",
		"documents", len(set.Documents),
		"dimension", dimension,
		"model", s.model)
	return FromSnapshot(snapshot), nil
}

// snapshotValid reports whether a persisted snapshot can serve the set.
func (s *Store) snapshotValid(snapshot *core.IndexSnapshot, set *core.DocumentSet) bool {
	if snapshot.Meta.EmbeddingModel != s.model {
		return false
	}
	if snapshot.Meta.Fingerprint != set.Digest {
		return false
	}
	return snapshot.Meta.DocumentCount == len(set.Documents)
}

// embedAll embeds every document in batches with retry. The returned slice
// is parallel to docs.
func (s *Store) embedAll(ctx context.Context, docs []core.CleanDocument) ([][]float32, error) {
	vectors := make([][]float32, 0, len(docs))

	var tracker *ProgressTracker
	if s.progress != nil {
		tracker = NewProgressTracker(s.progress, len(docs), s.batchSize)
		tracker.Start()
		defer tracker.Finish()
	}

	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))

		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Text)
		}

		var batch [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			batch, embedErr = s.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, s.maxAttempts, s.baseDelay)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), len(texts))
		}

		vectors = append(vectors, batch...)
		if tracker != nil {
			tracker.Increment(len(texts))
		}
	}

	return vectors, nil
}

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

package resumedex

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/resumedex/ai"
	"github.com/poiesic/resumedex/ai/openai"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/format"
	"github.com/poiesic/resumedex/index"
	"github.com/poiesic/resumedex/loader"
	"github.com/poiesic/resumedex/search"
	"github.com/poiesic/resumedex/storage"
	"github.com/poiesic/resumedex/storage/badger"
)

// Engine wires the document loader, index store, and searcher over a shared
// storage directory. The document cache and index snapshot live in separate
// databases under that directory so either can be wiped independently.
type Engine struct {
	cacheBackend *badger.Backend
	indexBackend *badger.Backend
	documents    storage.DocumentCache
	indexRepo    storage.IndexRepository
	provider     ai.AIProvider
	loader       *loader.Loader
	store        *index.Store
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	progress io.Writer
	poolSize int
}

// WithAIConfig sets the AI service configuration.
// Ignored when a provider is injected with WithAIProvider.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider. Intended for tests.
// The engine takes ownership and closes the provider on Close.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithProgressWriter enables progress reporting during index builds.
func WithProgressWriter(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithExtractionPoolSize sets the worker pool size for document extraction.
func WithExtractionPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// NewEngine creates an engine persisting to storageDir.
func NewEngine(storageDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	cacheBackend, err := badger.OpenBackend(filepath.Join(storageDir, "cache"), false)
	if err != nil {
		return nil, err
	}

	indexBackend, err := badger.OpenBackend(filepath.Join(storageDir, "index"), false)
	if err != nil {
		cacheBackend.Close()
		return nil, err
	}

	return newEngine(cacheBackend, indexBackend, options)
}

// NewMemoryEngine creates an engine with in-memory storage. Intended for tests.
func NewMemoryEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	cacheBackend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	indexBackend, err := badger.OpenBackend("", true)
	if err != nil {
		cacheBackend.Close()
		return nil, err
	}

	return newEngine(cacheBackend, indexBackend, options)
}

func newEngine(cacheBackend, indexBackend *badger.Backend, options *engineOptions) (*Engine, error) {
	closeAll := func() {
		indexBackend.Close()
		cacheBackend.Close()
	}

	documents, err := badger.NewDocumentCache(cacheBackend)
	if err != nil {
		closeAll()
		return nil, err
	}

	indexRepo, err := badger.NewIndexRepository(indexBackend)
	if err != nil {
		closeAll()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	loaderOpts := []loader.Option{}
	if options.poolSize > 0 {
		loaderOpts = append(loaderOpts, loader.WithPoolSize(options.poolSize))
	}
	docLoader, err := loader.NewLoader(documents, loaderOpts...)
	if err != nil {
		provider.Close()
		closeAll()
		return nil, err
	}

	storeOpts := []index.Option{
		index.WithBatchSize(options.aiConfig.BatchSize),
	}
	if options.progress != nil {
		storeOpts = append(storeOpts, index.WithProgressWriter(options.progress))
	}
	store, err := index.NewStore(provider.Embedder(), indexRepo, options.aiConfig.EmbeddingModel, storeOpts...)
	if err != nil {
		provider.Close()
		closeAll()
		return nil, err
	}

	return &Engine{
		cacheBackend: cacheBackend,
		indexBackend: indexBackend,
		documents:    documents,
		indexRepo:    indexRepo,
		provider:     provider,
		loader:       docLoader,
		store:        store,
		logger:       slog.Default(),
	}, nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.indexBackend.Close(); err != nil {
		e.logger.Error("error closing index storage", "err", err)
		return err
	}
	if err := e.cacheBackend.Close(); err != nil {
		e.logger.Error("error closing cache storage", "err", err)
		return err
	}
	return nil
}

// LoadDocuments extracts (or loads from cache) the documents under sourceDir.
func (e *Engine) LoadDocuments(ctx context.Context, sourceDir string) (*core.DocumentSet, error) {
	return e.loader.Load(ctx, sourceDir, cacheKeyFor(sourceDir))
}

// BuildIndex ensures a usable index exists for sourceDir, loading the
// persisted one when it is still valid, and returns it.
func (e *Engine) BuildIndex(ctx context.Context, sourceDir string) (*index.Index, error) {
	set, err := e.LoadDocuments(ctx, sourceDir)
	if err != nil {
		return nil, err
	}
	return e.store.BuildOrLoad(ctx, set)
}

// RebuildIndex forces re-embedding of the documents under sourceDir,
// replacing any persisted snapshot. Cached extractions are still reused.
func (e *Engine) RebuildIndex(ctx context.Context, sourceDir string) (*index.Index, error) {
	set, err := e.LoadDocuments(ctx, sourceDir)
	if err != nil {
		return nil, err
	}
	return e.store.Rebuild(ctx, set)
}

// NewSearcher creates a searcher over the index built for sourceDir.
// Result previews resolve relative file paths against sourceDir.
func (e *Engine) NewSearcher(idx *index.Index, sourceDir string, opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithFormatter(format.New(format.WithBaseDir(sourceDir))),
	}
	return search.NewSearcher(idx, e.provider, append(base, opts...)...)
}

// Query is the end-to-end convenience path: load documents, ensure the
// index, and answer the query.
func (e *Engine) Query(ctx context.Context, sourceDir, query string, topK int) (*core.SearchResponse, error) {
	idx, err := e.BuildIndex(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	searcher, err := e.NewSearcher(idx, sourceDir)
	if err != nil {
		return nil, err
	}
	return searcher.Query(ctx, query, topK)
}

// cacheKeyFor derives a stable cache key from the source directory path.
func cacheKeyFor(sourceDir string) string {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		abs = sourceDir
	}
	return "resumes:" + core.DigestFromContent(abs)
}

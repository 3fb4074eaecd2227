package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/resumedex/ai"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/format"
	"github.com/poiesic/resumedex/index"
)

// DefaultCallTimeout bounds each external AI call made during a query.
const DefaultCallTimeout = 30 * time.Second

// Searcher answers natural-language queries against a built index.
type Searcher struct {
	idx         *index.Index
	embedder    ai.Embedder
	synthesizer ai.Synthesizer
	formatter   *format.Formatter
	callTimeout time.Duration
	synthesize  bool
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithFormatter sets a custom result formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(s *Searcher) error {
		if f == nil {
			return errors.New("formatter must not be nil")
		}
		s.formatter = f
		return nil
	}
}

// WithCallTimeout bounds each embedding and synthesis call.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d <= 0 {
			return fmt.Errorf("call timeout must be positive, got %v", d)
		}
		s.callTimeout = d
		return nil
	}
}

// WithSynthesis toggles answer synthesis. Enabled by default.
func WithSynthesis(enabled bool) Option {
	return func(s *Searcher) error {
		s.synthesize = enabled
		return nil
	}
}

// NewSearcher creates a new searcher over the given index.
func NewSearcher(idx *index.Index, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		idx:         idx,
		embedder:    provider.Embedder(),
		synthesizer: provider.Synthesizer(),
		formatter:   format.New(),
		callTimeout: DefaultCallTimeout,
		synthesize:  true,
		logger:      slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query retrieves the topK most relevant documents for the query text.
// Returns results ranked by descending similarity, plus a synthesized
// answer when synthesis is enabled and succeeds. Synthesis failures are
// logged and leave the answer empty; retrieval results are still returned.
func (s *Searcher) Query(ctx context.Context, query string, topK int) (*core.SearchResponse, error) {
	return s.QueryWithMonitor(ctx, query, topK, nil)
}

// QueryWithMonitor is Query with per-stage monitoring callbacks.
func (s *Searcher) QueryWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) (*core.SearchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	if s.idx.Len() == 0 {
		s.logger.Info("query against empty index", "query", query)
		results := []core.QueryResult{}
		monitor.Finish(results)
		return &core.SearchResponse{Results: results}, nil
	}

	vector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	monitor.AfterEmbedding(vector)

	scored := s.idx.TopK(vector, topK)
	monitor.AfterRetrieval(scored)

	results := s.formatter.Results(scored)

	var answer string
	if s.synthesize {
		answer = s.synthesizeAnswer(ctx, query, scored)
		monitor.AfterSynthesis(answer)
	}

	monitor.Finish(results)
	return &core.SearchResponse{
		Results: results,
		Answer:  answer,
	}, nil
}

// embedQuery embeds the query text under the call timeout.
// Failures and timeouts surface as ErrBackendUnavailable so callers can
// distinguish "the AI service is down" from bad input.
func (s *Searcher) embedQuery(ctx context.Context, query string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(callCtx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: embedding query: %w", core.ErrBackendUnavailable, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty vector", core.ErrBackendUnavailable)
	}
	return vector, nil
}

// synthesizeAnswer generates an answer from the retrieved documents.
// Best effort: any failure returns an empty answer.
func (s *Searcher) synthesizeAnswer(ctx context.Context, query string, scored []core.ScoredDocument) string {
	passages := make([]string, 0, len(scored))
	for _, hit := range scored {
		passages = append(passages, fmt.Sprintf("[%s]\n%s", hit.Document.FileName, hit.Document.Text))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	answer, err := s.synthesizer.Synthesize(callCtx, query, passages)
	if err != nil {
		s.logger.Warn("answer synthesis failed, returning results without answer", "err", err)
		return ""
	}
	return answer
}

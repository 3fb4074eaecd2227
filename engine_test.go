package resumedex

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumedex/ai/mock"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/search"
)

// writeDocx writes a minimal but valid .docx file containing the given
// paragraphs, so the end-to-end path exercises real extraction.
func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	part, err := w.Create("word/document.xml")
	require.NoError(t, err)

	fmt.Fprint(part, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	fmt.Fprint(part, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(part, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	fmt.Fprint(part, `</w:body></w:document>`)

	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewMemoryEngine(WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

// topicEmbedder maps engineering text to one axis and cooking text to the
// other, so ranking is predictable.
func topicEmbedder() *mock.MockEmbedder {
	embed := func(text string) []float32 {
		if strings.Contains(strings.ToLower(text), "chef") {
			return []float32{0, 1}
		}
		return []float32{1, 0}
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = embed(text)
		}
		return vectors, nil
	}
	return embedder
}

func TestEngineEndToEndQuery(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "backend.docx"),
		"Jane Smith", "Senior backend engineer, ten years of Go and Kubernetes.")
	writeDocx(t, filepath.Join(dir, "chef.docx"),
		"John Baker", "Pastry chef specializing in laminated doughs.")

	provider := mock.NewMockProviderWithServices(topicEmbedder(), mock.NewMockSynthesizer())
	engine, err := NewMemoryEngine(WithAIProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	response, err := engine.Query(context.Background(),
		dir, "who has Go and Kubernetes experience?", 2)
	require.NoError(t, err)
	require.Len(t, response.Results, 2)

	assert.Equal(t, "backend.docx", response.Results[0].Filename)
	assert.InDelta(t, 1.0, response.Results[0].Score, 1e-3)
	assert.Equal(t, "chef.docx", response.Results[1].Filename)
	assert.NotEmpty(t, response.Results[0].Preview)
	assert.NotEmpty(t, response.Answer)
}

func TestEngineQueryMissingDirectory(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Query(context.Background(), "/no/such/dir", "query", 5)
	assert.ErrorIs(t, err, core.ErrPathNotFound)
}

func TestEngineReusesIndexAcrossBuilds(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "Backend engineer with Go experience.")

	provider := mock.NewMockProvider()
	engine, err := NewMemoryEngine(WithAIProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	_, err = engine.BuildIndex(ctx, dir)
	require.NoError(t, err)

	embedder := provider.(*mock.MockProvider).GetMockEmbedder()
	callsAfterBuild := embedder.CallCount()

	idx, err := engine.BuildIndex(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, callsAfterBuild, embedder.CallCount(), "second build must reuse persisted index")
}

func TestEngineRebuildIndexForcesEmbedding(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "Backend engineer with Go experience.")

	provider := mock.NewMockProvider()
	engine, err := NewMemoryEngine(WithAIProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	_, err = engine.BuildIndex(ctx, dir)
	require.NoError(t, err)

	embedder := provider.(*mock.MockProvider).GetMockEmbedder()
	callsAfterBuild := embedder.CallCount()

	_, err = engine.RebuildIndex(ctx, dir)
	require.NoError(t, err)
	assert.Greater(t, embedder.CallCount(), callsAfterBuild)
}

func TestEngineSearcherSynthesisDisabled(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "Backend engineer with Go experience.")

	synthesizer := mock.NewMockSynthesizer()
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), synthesizer)
	engine, err := NewMemoryEngine(WithAIProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	idx, err := engine.BuildIndex(ctx, dir)
	require.NoError(t, err)

	searcher, err := engine.NewSearcher(idx, dir, search.WithSynthesis(false))
	require.NoError(t, err)

	response, err := searcher.Query(ctx, "go experience", 5)
	require.NoError(t, err)
	assert.Empty(t, response.Answer)
	assert.Zero(t, synthesizer.CallCount(), "disabled synthesis must not call the backend")
}

func TestEngineEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t)

	response, err := engine.Query(context.Background(), dir, "anyone at all", 5)
	require.NoError(t, err)
	assert.Empty(t, response.Results)
	assert.Empty(t, response.Answer)
}

func TestEngineLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "Data scientist, retrieval systems.")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	engine := newTestEngine(t)

	set, err := engine.LoadDocuments(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, set.Documents, 1)
	assert.Equal(t, "a.docx", set.Documents[0].FileName)
	assert.Contains(t, set.Documents[0].Text, "Data scientist")
}

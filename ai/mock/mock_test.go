package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterminism(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "golang developer")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "golang developer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 384)

	other, err := embedder.EmbedText(ctx, "data scientist")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	assert.Equal(t, 3, embedder.CallCount())
}

func TestMockEmbedderBatchMatchesSingle(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	single, err := embedder.EmbedText(ctx, "kubernetes")
	require.NoError(t, err)

	batch, err := embedder.EmbedTexts(ctx, []string{"kubernetes", "terraform"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, single, batch[0])
}

func TestMockEmbedderInjection(t *testing.T) {
	embedder := NewMockEmbedder()
	wantErr := errors.New("embedding service down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	_, err := embedder.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, wantErr)

	embedder.Reset()
	_, err = embedder.EmbedTexts(context.Background(), []string{"x"})
	assert.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestMockSynthesizer(t *testing.T) {
	synth := NewMockSynthesizer()

	answer, err := synth.Synthesize(context.Background(), "who knows Go?", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Contains(t, answer, "who knows Go?")
	assert.Equal(t, 1, synth.CallCount())
}

func TestMockProviderAggregation(t *testing.T) {
	provider := NewMockProvider()
	defer provider.Close()

	require.NotNil(t, provider.Embedder())
	require.NotNil(t, provider.Synthesizer())

	concrete, ok := provider.(*MockProvider)
	require.True(t, ok)
	assert.Same(t, concrete.GetMockEmbedder(), concrete.embedder)
	assert.Same(t, concrete.GetMockSynthesizer(), concrete.synthesizer)
}

func TestMockEmbedderUnitLength(t *testing.T) {
	embedder := NewMockEmbedder()

	vec, err := embedder.EmbedText(context.Background(), "distributed systems engineer")
	require.NoError(t, err)
	require.NotEmpty(t, vec)

	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sumSquares, 1e-3)
}

package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.SynthesisModel)
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
		assert.Equal(t, 32, cfg.BatchSize)
	})

	t.Run("with custom base url", func(t *testing.T) {
		cfg := NewConfig(WithBaseURL("http://localhost:11434/v1"))

		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("nomic-embed-text"),
			WithSynthesisModel("qwen2.5:3b"),
		)

		assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
		assert.Equal(t, "qwen2.5:3b", cfg.SynthesisModel)
	})

	t.Run("with batch size", func(t *testing.T) {
		cfg := NewConfig(WithBatchSize(8))

		assert.Equal(t, 8, cfg.BatchSize)
	})
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://localhost:11434"}
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	})

	t.Run("strips trailing slash before adding v1", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://localhost:11434/"}
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	})

	t.Run("leaves v1 suffix alone", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://localhost:11434/v1"}
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	})

	t.Run("defaults non-positive batch size", func(t *testing.T) {
		cfg := &Config{BatchSize: 0}
		cfg.Normalize()

		assert.Equal(t, 32, cfg.BatchSize)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:        "http://localhost:11434/v1",
			APIKey:         "none",
			EmbeddingModel: "nomic-embed-text",
			SynthesisModel: "qwen2.5:3b",
			BatchSize:      32,
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing base url", func(t *testing.T) {
		cfg := valid()
		cfg.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.APIKey = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "APIKey")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing synthesis model", func(t *testing.T) {
		cfg := valid()
		cfg.SynthesisModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes", func(t *testing.T) {
		cfg := valid()
		cfg.BaseURL = "http://localhost:11434"
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	})
}

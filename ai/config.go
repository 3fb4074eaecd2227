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

package ai

import (
	"errors"
	"os"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// BaseURL is the base URL for the OpenAI-compatible API.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	BaseURL string

	// APIKey authenticates requests to the API. Required; use "none" for
	// local services that do not check credentials.
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// SynthesisModel is the model identifier to use for answer synthesis.
	// Example: "gpt-4o-mini"
	SynthesisModel string

	// BatchSize is the number of documents embedded per API call when
	// building the index. Default: 32.
	BatchSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithAPIKey sets the API credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithSynthesisModel sets the synthesis model identifier.
func WithSynthesisModel(model string) ConfigOption {
	return func(c *Config) {
		c.SynthesisModel = model
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// DefaultConfig returns a Config with sensible defaults for the OpenAI API.
// The credential is taken from the OPENAI_API_KEY environment variable.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.openai.com/v1",
		APIKey:         os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: "text-embedding-3-small",
		SynthesisModel: "gpt-4o-mini",
		BatchSize:      32,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBaseURL("http://localhost:11434"),
//	    WithAPIKey("none"),
//	    WithEmbeddingModel("nomic-embed-text"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the base URL if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
//
// A missing credential fails here rather than on the first API call, so
// misconfiguration surfaces before any documents are processed.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required (set OPENAI_API_KEY or use WithAPIKey)")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.SynthesisModel == "" {
		return errors.New("ai config: SynthesisModel is required")
	}
	return nil
}

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

package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/resumedex/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Synthesizer implements ai.Synthesizer using OpenAI-compatible chat APIs.
type Synthesizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSynthesizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSynthesizer(config *ai.Config) (*Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.SynthesisModel),
	)
	if err != nil {
		return nil, err
	}

	return &Synthesizer{
		client: client,
		logger: slog.Default().With("component", "openai-synthesizer"),
	}, nil
}

// NewSynthesizer creates a new synthesizer using the provided configuration.
//
// Returns ai.Synthesizer interface to enforce abstraction.
func NewSynthesizer(config *ai.Config) (ai.Synthesizer, error) {
	return newSynthesizer(config)
}

// Synthesize generates an answer to the query grounded in the given passages.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, passages []string) (string, error) {
	if len(passages) == 0 {
		s.logger.Debug("no passages to synthesize from")
		return "", nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(synthesisSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSynthesisPrompt(query, passages)),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		s.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

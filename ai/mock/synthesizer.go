package mock

import (
	"context"
	"fmt"
)

// MockSynthesizer is a test double for ai.Synthesizer.
// It allows custom behavior injection via function fields.
type MockSynthesizer struct {
	// SynthesizeFunc is called by Synthesize if set.
	// If nil, uses default deterministic behavior.
	SynthesizeFunc func(ctx context.Context, query string, passages []string) (string, error)

	callCount int
}

// NewMockSynthesizer creates a mock synthesizer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockSynthesizer().
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Synthesize returns a deterministic answer mentioning the query and passage count.
func (m *MockSynthesizer) Synthesize(ctx context.Context, query string, passages []string) (string, error) {
	m.callCount++

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, query, passages)
	}

	return fmt.Sprintf("mock answer for %q from %d passages", query, len(passages)), nil
}

// CallCount returns the number of times Synthesize was called.
func (m *MockSynthesizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSynthesizer) Reset() {
	m.callCount = 0
	m.SynthesizeFunc = nil
}

package mock

import (
	"context"
	"fmt"

	"github.com/praxislab/lectern/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default deterministic behavior.
	GenerateAnswerFunc func(ctx context.Context, question, contextBlock string) (string, error)

	// Fail makes every call return core.ErrUnavailable when set.
	Fail bool

	callCount int
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateAnswer returns a canned answer echoing the question, or the
// injected behavior when set.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error) {
	m.callCount++

	if m.Fail {
		return "", fmt.Errorf("mock generator: %w", core.ErrUnavailable)
	}
	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contextBlock)
	}

	return fmt.Sprintf("answer to: %s", question), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
	m.Fail = false
}

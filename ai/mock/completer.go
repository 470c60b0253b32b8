package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default behavior (echoes a fixed answer).
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	callCount  int
	lastPrompt string
}

// NewMockCompleter creates a mock completer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns an injected or fixed answer and records the prompt.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	return "mock answer", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastPrompt returns the most recent prompt passed to Complete.
// Useful for asserting on prompt construction.
func (m *MockCompleter) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears recorded state and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.CompleteFunc = nil
}

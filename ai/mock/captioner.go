package mock

import "context"

// MockCaptioner is a test double for ai.Captioner.
// It allows custom behavior injection via function fields.
type MockCaptioner struct {
	// DescribeImageFunc is called by DescribeImage if set.
	// If nil, uses default behavior (a fixed placeholder description).
	DescribeImageFunc func(ctx context.Context, mimeType string, image []byte) (string, error)

	callCount int
}

// NewMockCaptioner creates a mock captioner with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCaptioner() *MockCaptioner {
	return &MockCaptioner{}
}

// DescribeImage returns an injected or placeholder description.
func (m *MockCaptioner) DescribeImage(ctx context.Context, mimeType string, image []byte) (string, error) {
	m.callCount++

	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, mimeType, image)
	}

	return "a labeled diagram from the product manual", nil
}

// CallCount returns the number of times DescribeImage was called.
func (m *MockCaptioner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCaptioner) Reset() {
	m.callCount = 0
	m.DescribeImageFunc = nil
}

// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Captioner,
// ai.Completer, and ai.AIProvider for use in unit tests. The mocks allow tests
// to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vec, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockCaptioner := mock.NewMockCaptioner()
//	mockCaptioner.DescribeImageFunc = func(ctx context.Context, mimeType string, image []byte) (string, error) {
//	    return "shows the power button location", nil
//	}
//
//	// Check call counts
//	count := mockCaptioner.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockCaptioner: Returns a fixed placeholder figure description
//   - MockCompleter: Returns a fixed answer and records the last prompt
//   - MockProvider: Aggregates the three mocks
package mock

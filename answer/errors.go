package answer

import "errors"

var (
	// ErrAnswer indicates the language model failed to produce an answer.
	ErrAnswer = errors.New("answer generation failed")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question must not be empty")
)

package ingest

import "errors"

var (
	// ErrIndexing indicates building or writing the vector index failed.
	ErrIndexing = errors.New("indexing failed")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)

package storage

import (
	"context"

	"github.com/manualqa/manualqa/core"
)

// ChunkRepository provides operations over one persisted vector index.
// An index belongs to exactly one ingested document and is immutable once
// written; answering opens it read-only.
// Implementations must be thread-safe and support concurrent access.
type ChunkRepository interface {
	// AddChunkRecords adds chunk records to the index.
	// Record IDs must be set by the caller (content-based, see core.Chunk).
	// Returns the records as stored.
	AddChunkRecords(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error)

	// GetChunkRecord retrieves a single chunk record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetChunkRecord(ctx context.Context, id core.ID) (*core.ChunkRecord, error)

	// CountChunkRecords returns the number of chunk records in the index.
	CountChunkRecords(ctx context.Context) (int, error)

	// ListChunkRecords returns every chunk record ordered by sequence number.
	ListChunkRecords(ctx context.Context) ([]*core.ChunkRecord, error)

	// FindSimilar finds the chunks most similar to the given vector.
	// Returns up to limit matches ordered by similarity score (highest first).
	// Records without embeddings are skipped.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ChunkMatch, error)

	// Close closes the underlying index and releases resources.
	Close() error
}

// ManualRegistry tracks the ingestion status of product manuals.
// Product names are normalized before lookup, so variant spellings of one
// product resolve to the same record.
// Implementations must serialize concurrent GetOrCreate calls for the same
// product name.
type ManualRegistry interface {
	// GetOrCreate returns the record for a product name, creating a Pending
	// record when none exists. A record found in the Failed state is reset to
	// Pending so the caller can retry ingestion. The second return value
	// reports whether a new record was created.
	GetOrCreate(ctx context.Context, productName string) (*core.ManualRecord, bool, error)

	// Get retrieves the record for a product name.
	// Returns ErrNotFound if no record exists.
	Get(ctx context.Context, productName string) (*core.ManualRecord, error)

	// List returns all records ordered by normalized product name.
	List(ctx context.Context) ([]*core.ManualRecord, error)

	// MarkCompleted transitions the record to Completed and stores the
	// location of its vector index.
	MarkCompleted(ctx context.Context, record *core.ManualRecord, indexLocation string) error

	// MarkFailed transitions the record to Failed.
	MarkFailed(ctx context.Context, record *core.ManualRecord) error

	// Close closes the registry and releases resources.
	Close() error
}

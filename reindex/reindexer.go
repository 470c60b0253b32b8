// Copyright 2026 ManualQA Authors
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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/manualqa/manualqa/ai"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
	"github.com/manualqa/manualqa/storage/badger"
)

// Config holds configuration for a reindexing run.
type Config struct {
	// BatchSize is the number of chunks embedded per API call
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every chunk of existing manual indexes.
type Reindexer struct {
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReindexer creates a reindexer using the given embedder, which should be
// configured with the new embedding model.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run re-embeds every chunk of the index at indexLocation in place.
// The index must exist; storage.ErrIndexNotFound is returned otherwise.
// Chunk IDs and text are unchanged, only vectors are replaced.
func (r *Reindexer) Run(ctx context.Context, indexLocation string) error {
	repo, err := badger.OpenExistingChunkRepository(indexLocation)
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.ListChunkRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}

	total := len(records)
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found at %s (0 chunks)\n", indexLocation)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		if err := r.processBatch(ctx, repo, records[start:end]); err != nil {
			return err
		}

		processed += end - start
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// processBatch re-embeds one batch of chunks and writes the records back.
// Writing under the same content IDs replaces the stored vectors.
func (r *Reindexer) processBatch(ctx context.Context, repo storage.ChunkRepository, records []*core.ChunkRecord) error {
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i := range records {
		records[i].Vector = embeddings[i]
	}

	if _, err := repo.AddChunkRecords(ctx, records...); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}
	return nil
}

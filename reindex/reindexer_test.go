package reindex

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualqa/manualqa/ai/mock"
	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
	"github.com/manualqa/manualqa/storage/badger"
)

func buildIndex(t *testing.T, location string, texts ...string) {
	t.Helper()

	repo, err := badger.OpenChunkRepository(location)
	require.NoError(t, err)
	defer repo.Close()

	records := make([]*core.ChunkRecord, len(texts))
	for i, text := range texts {
		c := core.Chunk{Seq: i, Text: text}
		records[i] = &core.ChunkRecord{
			Id:     c.ContentID(),
			Seq:    c.Seq,
			Text:   c.Text,
			Vector: mock.DeterministicVector(text, 8),
		}
	}
	_, err = repo.AddChunkRecords(context.Background(), records...)
	require.NoError(t, err)
}

func TestNewReindexerRequiresEmbedder(t *testing.T) {
	_, err := NewReindexer(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRunMissingIndex(t *testing.T) {
	r, err := NewReindexer(mock.NewMockEmbedder(), nil, nil)
	require.NoError(t, err)

	err = r.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, storage.ErrIndexNotFound)
}

func TestRunReplacesVectors(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	buildIndex(t, location,
		"Check the oil level weekly.",
		"Replace the air filter every season.",
		"Store the machine in a dry place.",
	)

	// The new "model" embeds into a different dimension, so replaced
	// vectors are easy to tell apart.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.DeterministicVector(text, 16)
		}
		return out, nil
	}

	var progress bytes.Buffer
	r, err := NewReindexer(embedder, &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 1, RetryDelay: 0}, &progress)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), location))
	assert.Contains(t, progress.String(), "Reindex complete")

	repo, err := badger.OpenExistingChunkRepository(location)
	require.NoError(t, err)
	defer repo.Close()

	records, err := repo.ListChunkRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		assert.Len(t, record.Vector, 16, "chunk %d should carry the new embedding", record.Seq)
		assert.NotEmpty(t, record.Text)
	}
}

func TestRunEmptyIndex(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	repo, err := badger.OpenChunkRepository(location)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	var progress bytes.Buffer
	r, err := NewReindexer(mock.NewMockEmbedder(), nil, &progress)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), location))
	assert.Contains(t, progress.String(), "No chunks found")
}

func TestRunEmbeddingFailure(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	buildIndex(t, location, "Some chunk text.")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model gone")
	}

	r, err := NewReindexer(embedder, &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 2, RetryDelay: 0}, nil)
	require.NoError(t, err)

	err = r.Run(context.Background(), location)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	err = RetryWithBackoff(context.Background(), func() error { return nil }, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

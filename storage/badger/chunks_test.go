package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
)

func newTestChunkRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	repo, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func chunkRecord(seq int, text string, vector []float32) *core.ChunkRecord {
	return &core.ChunkRecord{
		Id:     core.Chunk{Seq: seq, Text: text}.ContentID(),
		Seq:    seq,
		Text:   text,
		Vector: vector,
	}
}

func TestChunkRepository_AddAndGet(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	record := chunkRecord(0, "Hold the power button for three seconds.", []float32{1, 0, 0})
	added, err := repo.AddChunkRecords(ctx, record)
	require.NoError(t, err)
	require.Len(t, added, 1)

	got, err := repo.GetChunkRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, record.Text, got.Text)
	assert.Equal(t, record.Seq, got.Seq)
}

func TestChunkRepository_GetMissing(t *testing.T) {
	repo := newTestChunkRepo(t)

	_, err := repo.GetChunkRecord(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_Closed(t *testing.T) {
	repo, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	ctx := context.Background()
	_, err = repo.AddChunkRecords(ctx,
		chunkRecord(0, "late write", []float32{1}))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.CountChunkRecords(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = repo.FindSimilar(ctx, []float32{1}, 4)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestChunkRepository_AddRejectsEmptyText(t *testing.T) {
	repo := newTestChunkRepo(t)

	_, err := repo.AddChunkRecords(context.Background(), &core.ChunkRecord{Id: 1})
	assert.ErrorIs(t, err, core.ErrEmptyText)
}

func TestChunkRepository_Count(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	count, err := repo.CountChunkRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.AddChunkRecords(ctx,
		chunkRecord(0, "first", []float32{1, 0}),
		chunkRecord(1, "second", []float32{0, 1}),
		chunkRecord(2, "third", []float32{1, 1}),
	)
	require.NoError(t, err)

	count, err = repo.CountChunkRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestChunkRepository_FindSimilar(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	// Three orthogonal-ish records; the query points at "power".
	_, err := repo.AddChunkRecords(ctx,
		chunkRecord(0, "power button on the left side", []float32{1, 0, 0}),
		chunkRecord(1, "cleaning the filter monthly", []float32{0, 1, 0}),
		chunkRecord(2, "warranty terms and service", []float32{0, 0, 1}),
	)
	require.NoError(t, err)

	matches, err := repo.FindSimilar(ctx, []float32{0.9, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "power button on the left side", matches[0].Record.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestChunkRepository_FindSimilar_NormalizesStoredVectors(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	// Stored with a large magnitude; must not dominate after normalization.
	_, err := repo.AddChunkRecords(ctx,
		chunkRecord(0, "big magnitude off-topic", []float32{0, 100, 0}),
		chunkRecord(1, "unit on-topic", []float32{1, 0, 0}),
	)
	require.NoError(t, err)

	matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "unit on-topic", matches[0].Record.Text)
}

func TestChunkRepository_FindSimilar_SkipsRecordsWithoutVectors(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunkRecords(ctx,
		chunkRecord(0, "no vector yet", nil),
		chunkRecord(1, "with vector", []float32{1, 0}),
	)
	require.NoError(t, err)

	matches, err := repo.FindSimilar(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "with vector", matches[0].Record.Text)
}

func TestChunkRepository_ListChunkRecords(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunkRecords(ctx,
		chunkRecord(2, "third", []float32{0, 1}),
		chunkRecord(0, "first", []float32{1, 0}),
		chunkRecord(1, "second", []float32{1, 1}),
	)
	require.NoError(t, err)

	records, err := repo.ListChunkRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].Text)
	assert.Equal(t, "second", records[1].Text)
	assert.Equal(t, "third", records[2].Text)
}

func TestChunkRepository_PersistsAcrossReopen(t *testing.T) {
	location := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()

	repo, err := OpenChunkRepository(location)
	require.NoError(t, err)

	record := chunkRecord(0, "the descaling light blinks when maintenance is due", []float32{0.4, 0.6})
	_, err = repo.AddChunkRecords(ctx, record)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := OpenExistingChunkRepository(location)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetChunkRecord(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, record.Text, got.Text)
}

func TestOpenExistingChunkRepository_MissingLocation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := OpenExistingChunkRepository(missing)
	assert.ErrorIs(t, err, storage.ErrIndexNotFound)

	// A failed open must not create the directory as a side effect.
	_, statErr := OpenExistingChunkRepository(missing)
	assert.ErrorIs(t, statErr, storage.ErrIndexNotFound)
}

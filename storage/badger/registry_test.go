package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualqa/manualqa/core"
	"github.com/manualqa/manualqa/storage"
)

func newTestRegistry(t *testing.T) storage.ManualRegistry {
	t.Helper()
	registry, err := NewMemoryManualRegistry()
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })
	return registry
}

func TestManualRegistry_GetOrCreate(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	record, created, err := registry.GetOrCreate(ctx, "Acme Blender 300")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "acme blender 300", record.ProductName)
	assert.Equal(t, "Acme Blender 300", record.DisplayName)
	assert.Equal(t, core.StatusPending, record.Status)
	assert.Empty(t, record.IndexLocation)
	assert.False(t, record.CreatedAt.IsZero())

	again, created, err := registry.GetOrCreate(ctx, "Acme Blender 300")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, record.Id, again.Id)
}

func TestManualRegistry_CaseNormalizedDedup(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	first, created, err := registry.GetOrCreate(ctx, "Foo X1")
	require.NoError(t, err)
	require.True(t, created)

	// Different casing and spacing resolve to the same record.
	second, created, err := registry.GetOrCreate(ctx, "foo  x1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Id, second.Id)
}

func TestManualRegistry_GetOrCreate_EmptyName(t *testing.T) {
	registry := newTestRegistry(t)

	_, _, err := registry.GetOrCreate(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrEmptyProductName)
}

func TestManualRegistry_StatusTransitions(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	record, _, err := registry.GetOrCreate(ctx, "coffee maker k20")
	require.NoError(t, err)

	require.NoError(t, registry.MarkCompleted(ctx, record, "/data/indexes/7"))
	got, err := registry.Get(ctx, "coffee maker k20")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.Equal(t, "/data/indexes/7", got.IndexLocation)

	require.NoError(t, registry.MarkFailed(ctx, record))
	got, err = registry.Get(ctx, "coffee maker k20")
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, got.Status)
}

func TestManualRegistry_FailedResetsToPendingOnRetry(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	record, _, err := registry.GetOrCreate(ctx, "toaster t9")
	require.NoError(t, err)
	require.NoError(t, registry.MarkFailed(ctx, record))

	retried, created, err := registry.GetOrCreate(ctx, "toaster t9")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, record.Id, retried.Id)
	assert.Equal(t, core.StatusPending, retried.Status)

	// The reset is persisted, not just returned.
	got, err := registry.Get(ctx, "toaster t9")
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestManualRegistry_CompletedIsNotReset(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	record, _, err := registry.GetOrCreate(ctx, "vacuum v5")
	require.NoError(t, err)
	require.NoError(t, registry.MarkCompleted(ctx, record, "/data/indexes/1"))

	again, created, err := registry.GetOrCreate(ctx, "vacuum v5")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, core.StatusCompleted, again.Status)
	assert.Equal(t, "/data/indexes/1", again.IndexLocation)
}

func TestManualRegistry_GetMissing(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Get(context.Background(), "never loaded")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManualRegistry_List(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"Zeta Z1", "alpha a1", "Mid M1"} {
		_, _, err := registry.GetOrCreate(ctx, name)
		require.NoError(t, err)
	}

	records, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha a1", records[0].ProductName)
	assert.Equal(t, "mid m1", records[1].ProductName)
	assert.Equal(t, "zeta z1", records[2].ProductName)
}

package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestSnapshotStoreSaveLoad(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSnapshotStore(client, time.Minute)
	ctx := context.Background()

	var missing []snapRow
	_, ok, err := store.Load(ctx, "sess-1", "customers", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	rows := []snapRow{{ID: 1, Name: "Asha"}, {ID: 2, Name: "Ravi"}}
	require.NoError(t, store.Save(ctx, "sess-1", "customers", rows))

	var loaded []snapRow
	savedAt, ok, err := store.Load(ctx, "sess-1", "customers", &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows, loaded)
	assert.False(t, savedAt.IsZero())

	var other []snapRow
	_, ok, err = store.Load(ctx, "sess-2", "customers", &other)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Load(ctx, "sess-1", "customers", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotStoreDrop(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSnapshotStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", "customers", []snapRow{{ID: 1}}))
	require.NoError(t, store.Save(ctx, "sess-1", "sales", []snapRow{{ID: 2}}))
	require.NoError(t, store.Drop(ctx, "sess-1"))

	var rows []snapRow
	_, ok, err := store.Load(ctx, "sess-1", "sales", &rows)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotStoreNilIsNoop(t *testing.T) {
	var store *SnapshotStore
	require.NoError(t, store.Save(context.Background(), "s", "r", 1))
	var v int
	_, ok, err := store.Load(context.Background(), "s", "r", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

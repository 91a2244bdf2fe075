package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBlobStore(db)
}

func TestBlobStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	value, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestBlobStore_SetGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// overwrite under the same key
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))

	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

func TestBlobStore_Clear(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Clear(ctx, "k"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, value)

	assert.NoError(t, store.Clear(ctx, "k"), "clearing a missing key is a no-op")
}

func TestBlobStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "state", []byte("current")))
	require.NoError(t, store.Set(ctx, "state:prev", []byte("backup")))

	current, err := store.Get(ctx, "state")
	require.NoError(t, err)
	backup, err := store.Get(ctx, "state:prev")
	require.NoError(t, err)

	assert.Equal(t, []byte("current"), current)
	assert.Equal(t, []byte("backup"), backup)
}

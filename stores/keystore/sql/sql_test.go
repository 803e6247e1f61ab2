package sql

import (
	"context"
	"net/url"
	"testing"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/colchain/colchain/settings"
	"github.com/colchain/colchain/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQL {
	storeURL, err := url.Parse("sqlitememory:///")
	require.NoError(t, err)

	store, err := New(ulogger.TestLogger{}, storeURL, &settings.Settings{})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestPutAndGetKey(t *testing.T) {
	store := newTestStore(t)

	record := &model.KeyRecord{
		Name: "alice",
		P:    "23",
		Q:    "11",
		G:    "4",
		X:    "7",
		Y:    "8",
	}

	created, err := store.PutKeyIfAbsent(context.Background(), record)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := store.GetKey(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestPutKeyIfAbsentKeepsExisting(t *testing.T) {
	store := newTestStore(t)

	first := &model.KeyRecord{Name: "bob", P: "1", Q: "2", G: "3", X: "4", Y: "5"}
	second := &model.KeyRecord{Name: "bob", P: "9", Q: "9", G: "9", X: "9", Y: "9"}

	created, err := store.PutKeyIfAbsent(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.PutKeyIfAbsent(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := store.GetKey(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestGetKeyNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetKey(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

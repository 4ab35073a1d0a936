package configstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/exchange-connect/internal/configstore"
	"github.com/nhle/exchange-connect/internal/testutil"
)

func TestSQLiteStore_PutLookup(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	item := configstore.Item{Directory: "exchange", Name: "ews", Value: "Exchange2013\nmanualUrl\n"}
	require.NoError(t, s.Put(ctx, item))

	got, err := s.Lookup(ctx, "exchange", "ews")
	require.NoError(t, err)
	assert.Equal(t, &item, got)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.Lookup(context.Background(), "exchange", "missing")
	assert.ErrorIs(t, err, configstore.ErrNotFound)

	err = s.Delete(context.Background(), "exchange", "missing")
	assert.ErrorIs(t, err, configstore.ErrNotFound)
}

func TestSQLiteStore_PutReplacesValue(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "exchange", Name: "ews", Value: "old"}))
	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "exchange", Name: "ews", Value: "new"}))

	got, err := s.Lookup(ctx, "exchange", "ews")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Value)

	items, err := s.List(ctx, "exchange")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSQLiteStore_DirectoriesAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "prod", Name: "ews", Value: "p"}))
	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "test", Name: "ews", Value: "t"}))
	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "test", Name: "archive", Value: "a"}))

	items, err := s.List(ctx, "test")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "archive", items[0].Name)
	assert.Equal(t, "ews", items[1].Name)

	got, err := s.Lookup(ctx, "prod", "ews")
	require.NoError(t, err)
	assert.Equal(t, "p", got.Value)

	require.NoError(t, s.Delete(ctx, "test", "ews"))
	_, err = s.Lookup(ctx, "prod", "ews")
	assert.NoError(t, err)
}

func TestSQLiteStore_RejectsInvalidName(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.Put(context.Background(), configstore.Item{Directory: "exchange", Name: " "})
	assert.ErrorIs(t, err, configstore.ErrInvalidName)
}

func TestSQLiteStore_ReopenKeepsItems(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.db")

	s, err := configstore.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, configstore.Item{Directory: "exchange", Name: "ews", Value: "v"}))
	require.NoError(t, s.Close())

	// Reopening must not re-run applied migrations.
	s, err = configstore.NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, err := s.Lookup(ctx, "exchange", "ews")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Value)
}

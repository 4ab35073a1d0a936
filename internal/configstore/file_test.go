package configstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manualRecord = "Exchange2013\nmanualUrl\nhttps://mail.example.com/EWS/Exchange.asmx\nalice\nsecret\n"

func TestFileStore_PutLookup(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	require.NoError(t, s.Put(ctx, Item{Directory: "exchange", Name: "ews", Value: manualRecord}))

	item, err := s.Lookup(ctx, "exchange", "ews")
	require.NoError(t, err)
	assert.Equal(t, &Item{Directory: "exchange", Name: "ews", Value: manualRecord}, item)

	info, err := os.Stat(filepath.Join(s.Root, "exchange", "ews.config"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_AbsoluteDirectoryIgnoresRoot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ews.config"), []byte(manualRecord), 0o600))

	s := NewFileStore("/nonexistent-root")
	item, err := s.Lookup(ctx, dir, "ews")
	require.NoError(t, err)
	assert.Equal(t, manualRecord, item.Value)
}

func TestFileStore_NotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, err := s.Lookup(context.Background(), "exchange", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_InvalidName(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, name := range []string{"", " ", "..", "../escape", `a\b`, "a/b"} {
		_, err := s.Lookup(context.Background(), "exchange", name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestFileStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	items, err := s.List(ctx, "exchange")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.Put(ctx, Item{Directory: "exchange", Name: "b", Value: "2"}))
	require.NoError(t, s.Put(ctx, Item{Directory: "exchange", Name: "a", Value: "1"}))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root, "exchange", "notes.txt"), []byte("x"), 0o600))

	items, err = s.List(ctx, "exchange")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)

	require.NoError(t, s.Delete(ctx, "exchange", "a"))
	assert.ErrorIs(t, s.Delete(ctx, "exchange", "a"), ErrNotFound)

	_, err = s.Lookup(ctx, "exchange", "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

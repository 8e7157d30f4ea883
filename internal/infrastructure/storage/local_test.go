package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/pkg/logger"
)

func TestLocalStore_Put(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(root, logger.NewNop())
	require.NoError(t, err)

	loc, err := store.Put(context.Background(), "QRY_20240315103000/lease.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "QRY_20240315103000", "lease.pdf"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStore_RejectsEscapingKey(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside.txt", []byte("x"))
	assert.Error(t, err)
}

func TestLocalStore_Delete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	loc, err := store.Put(ctx, "QRY_20240315103000/lease.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "QRY_20240315103000/lease.pdf"))
	assert.NoFileExists(t, loc)
	assert.NoDirExists(t, filepath.Join(root, "QRY_20240315103000"))

	// already gone
	assert.NoError(t, store.Delete(ctx, "QRY_20240315103000/lease.pdf"))
	assert.Error(t, store.Delete(ctx, "../outside.txt"))
}

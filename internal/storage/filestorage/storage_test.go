package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	storage "resource_hub/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T, maxSize int64) *storage.LocalFileStorage {
	t.Helper()

	fs, err := storage.NewLocalFileStorage(t.TempDir(), "http://test.local/uploads", maxSize)
	require.NoError(t, err)

	return fs
}

func TestLocalFileStorage_Save(t *testing.T) {
	ctx := context.Background()
	fs := setupFileStorage(t, 0)

	relPath, size, err := fs.Save(ctx, strings.NewReader("image bytes"), "resources", "cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("resources", "cover.jpg"), relPath)
	assert.Equal(t, int64(len("image bytes")), size)
}

func TestLocalFileStorage_SaveTooLarge(t *testing.T) {
	ctx := context.Background()
	fs := setupFileStorage(t, 4)

	_, _, err := fs.Save(ctx, strings.NewReader("way past the limit"), "resources", "big.jpg")
	require.ErrorIs(t, err, storage.ErrFileTooLarge)
}

func TestLocalFileStorage_Delete(t *testing.T) {
	ctx := context.Background()
	fs := setupFileStorage(t, 0)

	relPath, _, err := fs.Save(ctx, strings.NewReader("x"), "resources", "gone.jpg")
	require.NoError(t, err)

	require.NoError(t, fs.Delete(ctx, relPath))

	// deleting a missing file is not an error
	assert.NoError(t, fs.Delete(ctx, relPath))
}

func TestLocalFileStorage_URLRoundTrip(t *testing.T) {
	fs := setupFileStorage(t, 0)

	url := fs.URLFor(filepath.Join("resources", "cover.jpg"))
	assert.Equal(t, "http://test.local/uploads/resources/cover.jpg", url)

	relPath, ok := fs.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("resources", "cover.jpg"), relPath)

	_, ok = fs.PathFromURL("https://elsewhere.example/cover.jpg")
	assert.False(t, ok)
}

func TestLocalFileStorage_SaveCancelledContext(t *testing.T) {
	fs := setupFileStorage(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fs.Save(ctx, strings.NewReader("x"), "resources", "late.jpg")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join("resources", "late.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}

package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePhoto(t *testing.T, dir, name string, modTime time.Time) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("fake image"), 0o644))
	require.NoError(t, os.Chtimes(p, modTime, modTime))
}

func TestLocalSourceListImages(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	writePhoto(t, dir, "old.jpg", base)
	writePhoto(t, dir, "new photo.png", base.Add(2*time.Hour))
	writePhoto(t, dir, "mid.JPEG", base.Add(time.Hour))
	writePhoto(t, dir, "readme.txt", base.Add(3*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	src, err := NewLocalSource(dir)
	require.NoError(t, err)

	images, err := src.ListImages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, "new photo.png", images[0].ID)
	assert.Equal(t, "/photos/new%20photo.png/image", images[0].DisplayURL)
	assert.Equal(t, "new photo", images[0].AltText)
	assert.Equal(t, filepath.Base(dir), images[0].AuthorName)
	assert.Equal(t, "mid.JPEG", images[1].ID)
	assert.Equal(t, "old.jpg", images[2].ID)

	images, err = src.ListImages(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "new photo.png", images[0].ID)
}

func TestNewLocalSourceValidation(t *testing.T) {
	_, err := NewLocalSource("")
	assert.Error(t, err)

	_, err = NewLocalSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	f := filepath.Join(t.TempDir(), "file.jpg")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err = NewLocalSource(f)
	assert.Error(t, err)
}

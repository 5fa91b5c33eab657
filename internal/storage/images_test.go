package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskImageStore_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewDiskImageStore(dir)

	url, err := store.Save(ctx, "dishes", ".PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/dishes/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	onDisk := filepath.Join(dir, "dishes", filepath.Base(url))
	raw, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))

	require.NoError(t, store.Remove(ctx, url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Remove(ctx, url))
}

func TestDiskImageStore_RemoveIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	store := NewDiskImageStore(filepath.Join(dir, "uploads"))

	tests := []string{
		"https://cdn.example.com/a.png",
		"/uploads/../keep.txt",
		"/uploads/",
		"",
	}
	for _, testCase := range tests {
		t.Run(testCase, func(t *testing.T) {
			assert.NoError(t, store.Remove(context.Background(), testCase))
		})
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

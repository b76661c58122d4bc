package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Put(t *testing.T) {
	t.Parallel()

	t.Run("writes nested artifact", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)
		path := sitecrawl.ArtifactPath(sitecrawl.CategoryPages, "https://example.com/a")

		require.NoError(t, store.Put(context.Background(), path, []byte(`{"url":"https://example.com/a"}`)))

		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		require.NoError(t, err)
		assert.JSONEq(t, `{"url":"https://example.com/a"}`, string(got))
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)

		require.NoError(t, store.Put(context.Background(), sitecrawl.ManifestPath, []byte("first")))
		require.NoError(t, store.Put(context.Background(), sitecrawl.ManifestPath, []byte("second")))

		got, err := store.Get(sitecrawl.ManifestPath)
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, sitecrawl.ManifestPath, entries[0].Name())
	})

	t.Run("rejects paths escaping the directory", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())

		for _, p := range []string{"../evil.json", "/etc/passwd", "", "pages/../../x.json"} {
			err := store.Put(context.Background(), p, []byte("x"))
			assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err), p)
		}
	})

	t.Run("unwritable directory is ESTORAGE", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "pages")
		require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

		err := fs.NewStore(dir).Put(context.Background(), "pages/x.json", []byte("{}"))

		require.Error(t, err)
		assert.Equal(t, sitecrawl.ESTORAGE, sitecrawl.ErrorCode(err))
	})

	t.Run("cancelled context is ESTORAGE", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fs.NewStore(t.TempDir()).Put(ctx, "pages/x.json", []byte("{}"))

		assert.Equal(t, sitecrawl.ESTORAGE, sitecrawl.ErrorCode(err))
	})
}

func TestStore_Get(t *testing.T) {
	t.Parallel()

	_, err := fs.NewStore(t.TempDir()).Get("pages/missing.json")

	assert.Equal(t, sitecrawl.ENOTFOUND, sitecrawl.ErrorCode(err))
}

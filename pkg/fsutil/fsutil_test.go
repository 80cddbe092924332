package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gozx/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates file with default mode", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "out.zig")

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
	})

	t.Run("replaces existing content", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "out.zig")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "out.zig")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "x"), []byte("x"), 0)
		require.Error(t, err)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.zig")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("captures snapshot", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "in.zx")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

		data, snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
		assert.Equal(t, int64(7), snap.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, _, err := fsutil.Read(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, _, err := fsutil.Read(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})
}

func TestSnapshot_Modified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "in.zx")
		require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

		_, snap, err := fsutil.Read(ctx, path)
		require.NoError(t, err)

		modified, err := snap.Modified(ctx)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("content changed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "in.zx")
		require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

		_, snap, err := fsutil.Read(ctx, path)
		require.NoError(t, err)

		// Force a different mtime so the quick check trips.
		require.NoError(t, os.WriteFile(path, []byte("bb"), 0o644))
		future := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, future, future))

		modified, err := snap.Modified(ctx)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted counts as modified", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "in.zx")
		require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

		_, snap, err := fsutil.Read(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := snap.Modified(ctx)
		require.NoError(t, err)
		assert.True(t, modified)
	})
}

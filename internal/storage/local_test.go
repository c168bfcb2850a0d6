package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shopapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalForTest(t *testing.T) (Storage, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := NewLocal(config.StorageConfig{LocalDir: dir})
	require.NoError(t, err)
	return st, dir
}

func TestNewLocal(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "uploads")
		_, err := NewLocal(config.StorageConfig{LocalDir: dir})
		assert.NoError(t, err)

		st, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	})

	t.Run("empty dir rejected", func(t *testing.T) {
		_, err := NewLocal(config.StorageConfig{})
		assert.Error(t, err)
	})
}

func TestLocalStorage_PutGet(t *testing.T) {
	st, dir := newLocalForTest(t)
	ctx := context.Background()

	info, err := st.Put(ctx, "1700000000000-photo.png", strings.NewReader("image bytes"), PutObjectOptions{
		Size:        11,
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-photo.png", info.Key)
	assert.Equal(t, int64(11), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	// Readable from disk under the same name
	_, err = os.Stat(filepath.Join(dir, "1700000000000-photo.png"))
	assert.NoError(t, err)

	rc, getInfo, err := st.Get(ctx, "1700000000000-photo.png")
	require.NoError(t, err)
	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(b))
	assert.Equal(t, int64(11), getInfo.Size)
	assert.Equal(t, "image/png", getInfo.ContentType)
}

func TestLocalStorage_GetMissing(t *testing.T) {
	st, _ := newLocalForTest(t)

	_, _, err := st.Get(context.Background(), "absent.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorage_Delete(t *testing.T) {
	st, dir := newLocalForTest(t)
	ctx := context.Background()

	t.Run("removes existing blob", func(t *testing.T) {
		_, err := st.Put(ctx, "doomed.txt", strings.NewReader("x"), PutObjectOptions{Size: 1})
		require.NoError(t, err)

		assert.NoError(t, st.Delete(ctx, "doomed.txt"))

		_, err = os.Stat(filepath.Join(dir, "doomed.txt"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing blob is an error", func(t *testing.T) {
		err := st.Delete(ctx, "never-existed.txt")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestLocalStorage_RejectsNestedKeys(t *testing.T) {
	st, _ := newLocalForTest(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "a/b.txt", ""} {
		_, err := st.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{Size: 1})
		assert.Error(t, err, "key %q", key)

		_, _, err = st.Get(ctx, key)
		assert.Error(t, err, "key %q", key)

		assert.Error(t, st.Delete(ctx, key), "key %q", key)
	}
}

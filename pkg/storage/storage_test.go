package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	key := GenerateKey("articles", "My Photo.JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^articles/2025/03/My-Photo-[a-z0-9]{6}\.jpg$`), key)

	key = GenerateKey("articles", "صورة.png", now)
	assert.Regexp(t, regexp.MustCompile(`^articles/2025/03/file-[a-z0-9]{6}\.png$`), key)

	assert.NotEqual(t, GenerateKey("a", "x.png", now), GenerateKey("a", "x.png", now))
}

func TestLocalStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	obj, err := store.Put(context.Background(), "articles/2025/03/a.png", strings.NewReader("png-bytes"), "image/png", 9)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/articles/2025/03/a.png", obj.URL)
	assert.Equal(t, int64(9), obj.Size)

	_, err = os.Stat(filepath.Join(dir, "articles/2025/03/a.png"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), obj.Key))
	_, err = os.Stat(filepath.Join(dir, "articles/2025/03/a.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), "missing.png"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", strings.NewReader("x"), "image/png", 1)
	assert.Error(t, err)
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/store"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "data"), nil)
	require.NoError(t, err)
	return b
}

func TestBackend_ReadMissing(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Read(context.Background(), store.KindNovels)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestBackend_WriteReplacesAtomically(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, store.KindComments, []byte("[]\n")))
	require.NoError(t, b.Write(ctx, store.KindComments, []byte(`[{"id":1}]`)))

	data, err := os.ReadFile(b.Path(store.KindComments))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))

	entries, err := os.ReadDir(b.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "comments.json", entries[0].Name())

	info, err := os.Stat(b.Path(store.KindComments))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestBackend_CanceledContext(t *testing.T) {
	b := setupBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Write(ctx, store.KindUsers, []byte("[]")), context.Canceled)
	_, err := b.Read(ctx, store.KindUsers)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackend_Path(t *testing.T) {
	b := &Backend{dir: "/srv/inovel"}
	assert.Equal(t, "/srv/inovel/novels.json", b.Path(store.KindNovels))
	assert.Equal(t, Name, b.Name())
}

package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStore_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Put(ctx, "fault_photos/fault_1_photo_2.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "fault_photos/fault_1_photo_2.jpg", name)

	r, err := store.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(ctx, name))
	_, err = store.Open(ctx, name)
	assert.Error(t, err)
}

func TestFilesystemStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(ctx, "logos/logo.png", strings.NewReader("old"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "logos/logo.png", strings.NewReader("new"))
	require.NoError(t, err)

	r, err := store.Open(ctx, "logos/logo.png")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFilesystemStore_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never/written.bin"))
}

func TestFilesystemStore_RejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	require.NoError(t, err)

	for _, name := range []string{
		"../outside.txt",
		"a/../../outside.txt",
		"/etc/passwd",
		".",
		"",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Put(ctx, name, strings.NewReader("x"))
			assert.Error(t, err)
			_, err = store.Open(ctx, name)
			assert.Error(t, err)
			assert.Error(t, store.Delete(ctx, name))
		})
	}

	// nothing may appear next to the root
	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "outside.txt", e.Name())
	}
}

func TestNewFilesystemStore_RequiresRoot(t *testing.T) {
	_, err := NewFilesystemStore("")
	assert.Error(t, err)
}

func TestNewFilesystemStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "blobs")
	_, err := NewFilesystemStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

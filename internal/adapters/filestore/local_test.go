package filestore

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

func TestLocal_SaveOpenRemove(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.Save(ctx, "resume/abc.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	f, err := store.Open(ctx, "resume/abc.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "%PDF-1.4 body", string(body))

	entries, err := os.ReadDir(filepath.Join(store.Root(), "resume"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	require.NoError(t, store.Remove(ctx, "resume/abc.pdf"))
	require.NoError(t, store.Remove(ctx, "resume/abc.pdf"), "missing file is fine")

	_, err = store.Open(ctx, "resume/abc.pdf")
	require.ErrorIs(t, err, ErrNotExist)
}

func TestLocal_RejectsEscapingPaths(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, p := range []string{"", "../etc/passwd", "/etc/passwd", "logo/../../x.png"} {
		_, err := store.Save(ctx, p, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrInvalidPath, p)
		_, err = store.Open(ctx, p)
		require.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocal_SaveHonoursCancelledContext(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "logo/a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}

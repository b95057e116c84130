package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	store := file.New(dir)
	ctx := context.Background()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "missing directory lists as empty")

	require.NoError(t, store.Save(ctx, "add-1", &domain.Snapshot{State: "q0", Cells: []string{"1"}}))
	assert.FileExists(t, filepath.Join(dir, "add-1.json"))

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-add-2-123"), []byte("x"), 0o644))

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"add-1"}, list)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b"} {
		assert.ErrorIs(t, store.Save(ctx, id, &domain.Snapshot{}), domain.ErrInvalidSessionID, id)
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrInvalidSessionID, id)
		assert.ErrorIs(t, store.Delete(ctx, id), domain.ErrInvalidSessionID, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

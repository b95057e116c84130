package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/pkg/domain"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func() *domain.Snapshot {
		return &domain.Snapshot{
			Machine:   "unary_add",
			Program:   "EMPTY: #\nINITIAL_STATE: q0\n(q0, 1): (q1, 0, R)\n",
			State:     "q1",
			Cells:     []string{"0", "+", "1", "1", "="},
			Head:      1,
			Blank:     "#",
			Steps:     1,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot()
		require.NoError(t, store.Save(ctx, sessionID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Machine, loaded.Machine)
		assert.Equal(t, snap.Program, loaded.Program)
		assert.Equal(t, snap.State, loaded.State)
		assert.Equal(t, snap.Cells, loaded.Cells)
		assert.Equal(t, snap.Head, loaded.Head)
		assert.Equal(t, snap.Blank, loaded.Blank)
		assert.Equal(t, snap.Steps, loaded.Steps)
		assert.False(t, loaded.Halted)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		snap := newSnapshot()
		snap.State = "q2"
		snap.Steps = 7
		snap.Halted = true
		require.NoError(t, store.Save(ctx, sessionID, snap))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "q2", loaded.State)
		assert.Equal(t, 7, loaded.Steps)
		assert.True(t, loaded.Halted)
	})

	t.Run("No aliasing", func(t *testing.T) {
		snap := newSnapshot()
		require.NoError(t, store.Save(ctx, sessionID, snap))
		snap.Cells[0] = "X"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "0", loaded.Cells[0], "mutating the saved snapshot must not change the stored one")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newSnapshot()))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, newSnapshot()))
		require.NoError(t, store.Save(ctx, id2, newSnapshot()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

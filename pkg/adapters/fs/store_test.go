package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/adapters/fs"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

func TestStore_LoadSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := fs.NewStore(fs.Config{Dir: dir})

	_, err := store.Load()
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.Save([]byte(`{"notes":[]}`)), "data dir is created on first save")
	got, err := store.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":[]}`, string(got))

	state := store.State().(fs.StoreState)
	assert.Equal(t, 1, state.Writes)
	assert.Equal(t, filepath.Join(dir, fs.FileName), state.Path)
}

func TestStore_ReadOnly(t *testing.T) {
	store := fs.NewStore(fs.Config{Dir: t.TempDir(), ReadOnly: true})
	assert.ErrorIs(t, store.Save([]byte(`{}`)), core.ErrReadOnly)
}

func TestStore_CorruptFileIsSetAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, fs.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	store := fs.NewStore(fs.Config{Dir: dir})
	_, err := store.Load()
	assert.ErrorIs(t, err, core.ErrNotFound)

	backup, err := os.ReadFile(path + fs.CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{truncated", string(backup))
}

func TestStore_ServiceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := core.NewService(fs.NewStore(fs.Config{Dir: dir}))
	note, err := svc.CreateNote()
	require.NoError(t, err)
	require.NoError(t, svc.SetTitle(note.ID, "persisted"))

	reopened := core.NewService(fs.NewStore(fs.Config{Dir: dir}))
	got, err := reopened.Note(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}

func TestStore_WatchReportsExternalEdits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	store := fs.NewStore(fs.Config{Dir: dir})
	require.NoError(t, store.Save([]byte(`{"notes":[]}`)))

	var changes atomic.Int32
	require.NoError(t, store.Watch(ctx, func() { changes.Add(1) }))
	require.Eventually(t, func() bool {
		return store.State().(fs.StoreState).WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("own writes are ignored", func(t *testing.T) {
		require.NoError(t, store.Save([]byte(`{"notes":[],"x":1}`)))
		time.Sleep(4 * fs.WatchDebounce)
		assert.Equal(t, int32(0), changes.Load())
	})

	t.Run("foreign writes are reported", func(t *testing.T) {
		require.NoError(t, os.WriteFile(store.Path(), []byte(`{"notes":[],"x":2}`), 0o644))
		require.Eventually(t, func() bool { return changes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	})

	cancel()
	require.Eventually(t, func() bool {
		return !store.State().(fs.StoreState).WatcherActive
	}, 2*time.Second, 10*time.Millisecond)
}

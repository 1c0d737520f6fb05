package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/pkg/adapters/fs"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/memory"
	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

func closeApp(t *testing.T, app *platform.App) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, app.Close(ctx))
}

func TestOpen_LocalOnly(t *testing.T) {
	dir := t.TempDir()
	app, err := platform.Open(dir)
	require.NoError(t, err)
	assert.Nil(t, app.Engine)
	assert.ErrorIs(t, app.BeginSession(context.Background(), "u1"), platform.ErrNoRemote)

	n, err := app.Service.CreateNote()
	require.NoError(t, err)
	require.NoError(t, app.Service.SetTitle(n.ID, "kept"))
	closeApp(t, app)

	reopened, err := platform.Open(dir)
	require.NoError(t, err)
	got, err := reopened.Service.Note(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)
	closeApp(t, reopened)
}

func TestOpen_CloseFlushesPendingPush(t *testing.T) {
	remote := memory.New()
	events := remotesync.NewChannelReporter(32)
	app, err := platform.Open(t.TempDir(),
		platform.WithRemote(remote),
		platform.WithReporter(events),
		platform.WithClock(clockwork.NewFakeClock()),
	)
	require.NoError(t, err)
	require.NoError(t, app.BeginSession(context.Background(), "u1"))

	n, err := app.Service.CreateNote()
	require.NoError(t, err)
	require.NoError(t, app.Service.SetTitle(n.ID, "before exit"))
	assert.Equal(t, remotesync.PhasePending, app.Engine.Phase())

	// the fake clock never advances: only Close can push
	closeApp(t, app)

	assert.Equal(t, 1, remote.Writes())
	rec, ok := remote.Get(core.UserKey("u1"))
	require.True(t, ok)
	doc, err := core.DecodeDocument(rec.Payload)
	require.NoError(t, err)
	assert.Equal(t, "before exit", doc.Notes[0].Title)
	assert.Zero(t, events.Dropped())
}

func TestOpen_LocalWriteSurvivesRemoteOutage(t *testing.T) {
	dir := t.TempDir()
	remote := memory.New()
	remote.FailWith(core.ErrPermissionDenied)

	app, err := platform.Open(dir, platform.WithRemote(remote), platform.WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)
	require.Error(t, app.BeginSession(context.Background(), "u1"))

	n, err := app.Service.CreateNote()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = app.Close(ctx)
	var serr *remotesync.SyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, remotesync.ReasonPermissionDenied, serr.Reason)

	data, err := os.ReadFile(filepath.Join(dir, fs.FileName))
	require.NoError(t, err)
	doc, err := core.DecodeDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Notes, 1)
	assert.Equal(t, n.ID, doc.Notes[0].ID)
}

func TestOpen_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	app, err := platform.Open(dir, platform.WithReadOnly(true))
	require.NoError(t, err)

	_, err = app.Service.CreateNote()
	require.NoError(t, err, "mutations apply in memory")
	_, err = os.Stat(filepath.Join(dir, fs.FileName))
	assert.True(t, os.IsNotExist(err))
	closeApp(t, app)
}

func TestOpen_WatchReloadsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	app, err := platform.Open(dir)
	require.NoError(t, err)
	_, err = app.Service.CreateNote()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Watch(ctx))

	other, err := platform.Open(dir)
	require.NoError(t, err)
	_, err = other.Service.CreateNote()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(app.Service.Document().Notes) == 2
	}, 3*time.Second, 20*time.Millisecond)
	closeApp(t, other)
	closeApp(t, app)
}

func TestOpen_WithLocalStore(t *testing.T) {
	app, err := platform.Open("", platform.WithLocalStore(&memLocal{}))
	require.NoError(t, err)
	assert.Nil(t, app.Files)
	assert.Error(t, app.Watch(context.Background()))

	st, ok := app.State().(platform.AppState)
	require.True(t, ok)
	assert.NotNil(t, st.Service)
	assert.Nil(t, st.Sync)
}

func TestOpenRemoteKinds(t *testing.T) {
	store, closer, err := platform.OpenRemote(platform.RemoteConfig{Kind: platform.RemoteNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.NoError(t, closer())

	store, closer, err = platform.OpenRemote(platform.RemoteConfig{
		Kind: platform.RemoteSQL,
		SQL:  platform.SQLConfig{Driver: "sqlite3", DSN: ":memory:"},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, platform.Provision(context.Background(), store))
	assert.NoError(t, closer())

	store, _, err = platform.OpenRemote(platform.RemoteConfig{Kind: platform.RemoteHTTP, HTTP: platform.HTTPConfig{URL: "http://localhost:1"}}, nil)
	require.NoError(t, err)
	assert.Error(t, platform.Provision(context.Background(), store), "http remotes are provisioned server-side")

	_, _, err = platform.OpenRemote(platform.RemoteConfig{Kind: "ftp"}, nil)
	assert.Error(t, err)
}

type memLocal struct{ data []byte }

func (m *memLocal) Load() ([]byte, error) {
	if m.data == nil {
		return nil, core.ErrNotFound
	}
	return m.data, nil
}

func (m *memLocal) Save(data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

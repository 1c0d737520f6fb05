package platform_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := platform.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, platform.RemoteNone, cfg.Remote.Kind)
	assert.Equal(t, remotesync.DefaultDebounce, cfg.Sync.Debounce)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadConfig_FileEnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noteflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /from/file
sync:
  debounce: 500ms
remote:
  kind: sql
  user: alice
  sql:
    dsn: file.db
`), 0o644))

	t.Setenv("NOTEFLOW_REMOTE_USER", "bob")
	t.Setenv("NOTEFLOW_SYNC_PUSH_TIMEOUT", "3s")

	cfg, err := platform.LoadConfig(path, map[string]any{"data_dir": "/from/flag"})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.Debounce)
	assert.Equal(t, 3*time.Second, cfg.Sync.PushTimeout)
	assert.Equal(t, "bob", cfg.Remote.User)
	assert.Equal(t, platform.RemoteSQL, cfg.Remote.Kind)
	assert.Equal(t, "sqlite3", cfg.Remote.SQL.Driver)
	assert.Equal(t, "file.db", cfg.Remote.SQL.DSN)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := platform.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestConfigRedacted(t *testing.T) {
	cfg := platform.Config{}
	cfg.Server.JWTSecret = "s3cret"
	cfg.Remote.HTTP.Token = "tok"
	cfg.Remote.S3.AccessKey = "AK"

	r := cfg.Redacted()
	assert.NotEqual(t, "s3cret", r.Server.JWTSecret)
	assert.NotEqual(t, "tok", r.Remote.HTTP.Token)
	assert.Equal(t, "AK", r.Remote.S3.AccessKey)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret, "original untouched")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := platform.NewLogger(platform.LogConfig{Level: "warn"}, false, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	require.NoError(t, closer.Close())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=value")

	buf.Reset()
	logger, _ = platform.NewLogger(platform.LogConfig{Level: "warn"}, true, &buf)
	logger.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")

	file := filepath.Join(t.TempDir(), "noteflow.log")
	logger, closer = platform.NewLogger(platform.LogConfig{File: file, MaxSizeMB: 1}, false, &buf)
	logger.Info("to file")
	require.NoError(t, closer.Close())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

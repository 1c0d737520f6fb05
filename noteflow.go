package noteflow

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

// --- Types ---

// App is an opened note store, optionally wired to a sync engine.
type App = platform.App

// Note is a single note.
type Note = core.Note

// Event is a sync state change.
type Event = remotesync.Event

// Reporter receives sync events.
type Reporter = remotesync.Reporter

// Config is the on-disk and environment configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for Open.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock sets the clock used for timestamps and sync timers.
func WithClock(c clockwork.Clock) Option {
	return platform.WithClock(c)
}

// WithReadOnly keeps every change in memory.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLocalStore replaces the JSON file store.
func WithLocalStore(store core.LocalStore) Option {
	return platform.WithLocalStore(store)
}

// WithRemote enables sync against store.
func WithRemote(store core.RemoteStore) Option {
	return platform.WithRemote(store)
}

// WithReporter receives sync events in addition to the log.
func WithReporter(r Reporter) Option {
	return platform.WithReporter(r)
}

// WithDebounce sets the quiet period before an upload.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithSyncConfig sets the debounce and remote timeouts.
func WithSyncConfig(c remotesync.Config) Option {
	return platform.WithSyncConfig(c)
}

// --- Factory ---

// Open loads the note store in dir.
func Open(dir string, opts ...Option) (*App, error) {
	return platform.Open(dir, opts...)
}

// LoadConfig reads noteflow.yaml, NOTEFLOW_* variables and overrides.
func LoadConfig(path string, overrides map[string]any) (*Config, error) {
	return platform.LoadConfig(path, overrides)
}

// OpenConfig opens the store and remote described by cfg.
func OpenConfig(cfg *Config, logger *slog.Logger, extra ...Option) (*App, error) {
	return platform.OpenConfig(cfg, logger, extra...)
}

// FindRoot looks upwards from startDir for a NoteFlow data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

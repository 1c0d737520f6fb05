package platform

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

// options holds the internal configuration of an App.
type options struct {
	logger       *slog.Logger
	clock        clockwork.Clock
	readOnly     bool
	local        core.LocalStore
	remote       core.RemoteStore
	reporter     remotesync.Reporter
	sync         remotesync.Config
	newID        func() string
	errorHandler func(error)
	closers      []func() error
}

// Option defines a functional option for configuring an App.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: slog.Default(),
		clock:  clockwork.NewRealClock(),
		sync:   remotesync.DefaultConfig(),
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock shared by the service and the sync engine.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithReadOnly opens the local store read-only. Mutations still apply in
// memory but nothing is written to disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithLocalStore replaces the file store, e.g. with a mock.
// If provided, watching is unavailable.
func WithLocalStore(store core.LocalStore) Option {
	return func(o *options) {
		o.local = store
	}
}

// WithRemote enables cloud sync against store.
func WithRemote(store core.RemoteStore) Option {
	return func(o *options) {
		o.remote = store
	}
}

// WithReporter receives sync status events.
func WithReporter(r remotesync.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithSyncConfig sets the debounce and timeouts. Zero fields keep their defaults.
func WithSyncConfig(c remotesync.Config) Option {
	return func(o *options) {
		if c.Debounce > 0 {
			o.sync.Debounce = c.Debounce
		}
		if c.PushTimeout > 0 {
			o.sync.PushTimeout = c.PushTimeout
		}
		if c.PullTimeout > 0 {
			o.sync.PullTimeout = c.PullTimeout
		}
	}
}

// WithDebounce sets the push debounce window.
func WithDebounce(d time.Duration) Option {
	return WithSyncConfig(remotesync.Config{Debounce: d})
}

// WithIDGenerator overrides note and notebook id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithWatcherErrorHandler registers a callback for failures of the file watcher,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// withCloser registers cleanup for resources opened on the App's behalf.
func withCloser(fn func() error) Option {
	return func(o *options) {
		o.closers = append(o.closers, fn)
	}
}

package remotesync

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults for the engine timing.
const (
	DefaultDebounce    = 2 * time.Second
	DefaultPushTimeout = 10 * time.Second
	DefaultPullTimeout = 10 * time.Second
)

// Config holds the engine timing.
type Config struct {
	// Debounce is the quiet period after the last mutation before a push.
	Debounce time.Duration
	// PushTimeout bounds how long a write may take before it counts as TIMEOUT.
	PushTimeout time.Duration
	// PullTimeout bounds the session-start read.
	PullTimeout time.Duration
}

// DefaultConfig returns the standard timing.
func DefaultConfig() Config {
	return Config{
		Debounce:    DefaultDebounce,
		PushTimeout: DefaultPushTimeout,
		PullTimeout: DefaultPullTimeout,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock behind the debounce and timeout timers.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithReporter sets the sink for status events.
func WithReporter(r Reporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithConfig replaces the whole timing configuration. Zero fields keep their defaults.
func WithConfig(c Config) Option {
	return func(e *Engine) {
		if c.Debounce > 0 {
			e.cfg.Debounce = c.Debounce
		}
		if c.PushTimeout > 0 {
			e.cfg.PushTimeout = c.PushTimeout
		}
		if c.PullTimeout > 0 {
			e.cfg.PullTimeout = c.PullTimeout
		}
	}
}

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return WithConfig(Config{Debounce: d})
}

// WithPushTimeout sets the write deadline.
func WithPushTimeout(d time.Duration) Option {
	return WithConfig(Config{PushTimeout: d})
}

// WithPullTimeout sets the read deadline.
func WithPullTimeout(d time.Duration) Option {
	return WithConfig(Config{PullTimeout: d})
}

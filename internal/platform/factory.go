package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/NUMNIMx/noteflow/pkg/adapters/fs"
	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

// ErrNoRemote is returned by session operations when no remote is configured.
var ErrNoRemote = errors.New("no remote store configured")

// App is a wired note service: local store, domain service and, when a remote
// is configured, the sync engine notified on every mutation.
type App struct {
	Service *core.Service
	// Engine is nil without a remote.
	Engine *remotesync.Engine
	// Files is nil when a custom local store was injected.
	Files *fs.Store

	logger       *slog.Logger
	errorHandler func(error)
	closers      []func() error
}

// Open wires an App on the data directory dir.
//
//	app, err := platform.Open("~/.local/share/noteflow", platform.WithRemote(remote))
func Open(dir string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	app := &App{logger: o.logger, errorHandler: o.errorHandler, closers: o.closers}

	local := o.local
	if local == nil {
		if dir == "" {
			return nil, errors.New("data directory is required")
		}
		app.Files = fs.NewStore(fs.Config{
			Dir:          dir,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
			ErrorHandler: o.errorHandler,
		})
		local = app.Files
	}

	svcOpts := []core.ServiceOption{core.WithClock(o.clock), core.WithLogger(o.logger)}
	if o.newID != nil {
		svcOpts = append(svcOpts, core.WithIDGenerator(o.newID))
	}
	app.Service = core.NewService(local, svcOpts...)

	if o.remote != nil {
		engOpts := []remotesync.Option{
			remotesync.WithClock(o.clock),
			remotesync.WithLogger(o.logger),
			remotesync.WithConfig(o.sync),
		}
		if o.reporter != nil {
			engOpts = append(engOpts, remotesync.WithReporter(o.reporter))
		}
		app.Engine = remotesync.New(o.remote, app.Service, engOpts...)
		app.Service.SetNotifier(app.Engine)
	}
	return app, nil
}

// BeginSession starts syncing as uid: the remote document is pulled and
// merged, or bootstrapped from local state when absent.
func (a *App) BeginSession(ctx context.Context, uid string) error {
	if a.Engine == nil {
		return ErrNoRemote
	}
	return a.Engine.BeginSession(ctx, remotesync.Session{UserID: uid})
}

// EndSession stops syncing. It is a no-op without a remote.
func (a *App) EndSession() {
	if a.Engine != nil {
		a.Engine.EndSession()
	}
}

// Flush pushes pending changes now and waits for them.
func (a *App) Flush(ctx context.Context) error {
	if a.Engine == nil {
		return nil
	}
	return a.Engine.Flush(ctx)
}

// Watch reloads the document whenever another process rewrites the state
// file. Reloaded state is pushed like a local edit.
func (a *App) Watch(ctx context.Context) error {
	if a.Files == nil {
		return errors.New("watch requires the file store")
	}
	return a.Files.Watch(ctx, func() {
		if err := a.Service.Reload(); err != nil {
			a.logger.Warn("reload after external edit failed", "error", err)
			if a.errorHandler != nil {
				a.errorHandler(err)
			}
			return
		}
		a.logger.Info("reloaded external edit", "path", a.Files.Path())
	})
}

// Close flushes pending pushes and releases the remote.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Engine != nil {
		if err := a.Engine.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("final push: %w", err))
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AppState aggregates the introspection state of the wired components.
type AppState struct {
	Service any `json:"service"`
	Files   any `json:"files,omitempty"`
	Sync    any `json:"sync,omitempty"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	st := AppState{Service: a.Service.State()}
	if a.Files != nil {
		st.Files = a.Files.State()
	}
	if a.Engine != nil {
		st.Sync = a.Engine.State()
	}
	return st
}

// ComponentType implements introspection.Introspectable.
func (a *App) ComponentType() string {
	return "noteflow"
}

var _ introspection.Introspectable = (*App)(nil)

package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

// WatchDebounce is how long the watcher waits for a burst of writes to settle.
const WatchDebounce = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	onChange  func()
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store, onChange func()) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		store:      store,
		onChange:   onChange,
	}
}

// Watch reports edits of the state file made by other processes. Writes by
// this store are recognized and skipped. The watcher runs until ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	w := newWatchWorker(s, onChange)
	return w.Start(ctx)
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	if err := os.MkdirAll(w.store.config.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// The directory, not the file: atomic renames replace the file's inode.
	if err := watcher.Add(w.store.config.Dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.store.config.Dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(clockwork.NewRealClock(), WatchDebounce)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.store.path,
		}
	})
}

func (w *watchWorker) logger() *slog.Logger {
	return w.store.config.Logger
}

// relevant reports whether event may have changed the state file's content.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// settle runs after a burst of events; it compares content with the last own write.
func (w *watchWorker) settle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(w.store.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.handleWatcherError(fmt.Errorf("failed to read %s: %w", w.store.path, err))
		}
		return
	}
	if w.store.cache.isOwn(data) {
		w.logger().Debug("ignoring own write", "path", w.store.path)
		return
	}
	w.logger().Debug("state file changed externally", "path", w.store.path)
	// Remember it so the reload's own save is not reported back.
	w.store.cache.record(data, time.Now())
	w.onChange()
}

func (w *watchWorker) handleWatcherError(err error) {
	w.logger().Error("fsnotify error", "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("watcher panic: %v", r)
			attrs := []any{"error", err}
			if w.logger().Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			w.logger().Error("watcher panic", attrs...)
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Wait for an in-flight settle before the caller tears anything down.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return w.closed(ctx, "events")
			}
			if w.relevant(event) {
				w.debouncer.trigger(func() { w.settle(ctx) })
			}
		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				return w.closed(ctx, "errors")
			}
			w.handleWatcherError(wErr)
		}
	}
}

// closed maps a closed fsnotify channel to nil on shutdown, an error otherwise.
func (w *watchWorker) closed(ctx context.Context, ch string) error {
	if w.StopRequested || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("watcher %s channel closed", ch)
}

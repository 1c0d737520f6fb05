package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

// openApp opens the configured store. With a remote and a user configured it
// also begins a session; a failed pull is reported and the command carries
// on locally.
func openApp(ctx context.Context, opts ...platform.Option) *platform.App {
	app, err := platform.OpenConfig(cfg, slog.Default(), opts...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	if app.Engine != nil && cfg.Remote.User != "" {
		if err := app.BeginSession(ctx, cfg.Remote.User); err != nil {
			warn("sync unavailable", err)
		}
	}
	return app
}

// closeApp flushes any pending upload and releases the store.
func closeApp(ctx context.Context, app *platform.App) {
	if err := app.Close(ctx); err != nil {
		var serr *remotesync.SyncError
		if errors.As(err, &serr) {
			warn("changes saved locally, upload failed", err)
			return
		}
		fatal("Failed to close notes", err)
	}
}

func warn(msg string, err error) {
	fmt.Fprintln(os.Stderr, warnStyle.Render(msg+": ")+err.Error())
}

// resolveNote finds a note by id or unique id prefix.
func resolveNote(app *platform.App, ref string) core.Note {
	var match []core.Note
	for _, n := range app.Service.Document().Notes {
		if n.ID == ref {
			return n
		}
		if strings.HasPrefix(n.ID, ref) {
			match = append(match, n)
		}
	}
	switch len(match) {
	case 0:
		fatal("Note "+ref, core.ErrNoteNotFound)
	case 1:
		return match[0]
	}
	fatal("Note "+ref, fmt.Errorf("prefix matches %d notes", len(match)))
	return core.Note{}
}

// resolveNotebook finds a notebook by id, id prefix or name.
func resolveNotebook(app *platform.App, ref string) core.Notebook {
	var match []core.Notebook
	for _, nb := range app.Service.Notebooks() {
		if nb.ID == ref || strings.EqualFold(nb.Name, ref) {
			return nb
		}
		if strings.HasPrefix(nb.ID, ref) {
			match = append(match, nb)
		}
	}
	if len(match) == 1 {
		return match[0]
	}
	fatal("Notebook "+ref, core.ErrNotebookNotFound)
	return core.Notebook{}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

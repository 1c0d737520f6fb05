package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/internal/platform"
	syncevents "github.com/NUMNIMx/noteflow/pkg/adapters/lifecycle"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the remote notebook, merge it and push local changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		requireRemote()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reporter := remotesync.MultiReporter{
			remotesync.LogReporter{Logger: slog.Default()},
			remotesync.ReporterFunc(printEvent),
		}
		app, err := platform.OpenConfig(cfg, slog.Default(), platform.WithReporter(reporter))
		if err != nil {
			fatal("Failed to open notes", err)
		}
		if err := app.BeginSession(ctx, cfg.Remote.User); err != nil {
			_ = app.Close(ctx)
			fatal("Pull failed", err)
		}
		if err := app.Flush(ctx); err != nil {
			_ = app.Close(ctx)
			fatal("Push failed", err)
		}
		closeApp(ctx, app)
		fmt.Println(okStyle.Render("in sync as " + cfg.Remote.User))
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay running: reload on external edits and upload after each burst",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events := remotesync.NewChannelReporter(64)
		app := openApp(ctx, platform.WithReporter(remotesync.MultiReporter{
			remotesync.LogReporter{Logger: slog.Default()},
			events,
		}))
		if err := app.Watch(ctx); err != nil {
			fatal("Failed to watch", err)
		}

		src := syncevents.NewSource(events.Events())
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event stream", err)
		}
		fmt.Fprintln(os.Stderr, mutedStyle.Render("watching "+cfg.DataDir+", press ctrl-c to stop"))

		for e := range src.Events() {
			if ev, ok := e.(remotesync.Event); ok {
				printEvent(ev)
			}
		}

		// ctx is done; give the final upload its own deadline.
		final, cancel := context.WithTimeout(context.Background(), cfg.Sync.PushTimeout)
		defer cancel()
		closeApp(final, app)
	},
}

func requireRemote() {
	if cfg.Remote.Kind == platform.RemoteNone {
		fatal("Cannot sync", platform.ErrNoRemote)
	}
	if cfg.Remote.User == "" {
		fatal("Cannot sync", errors.New("no user: pass --user or set remote.user"))
	}
}

func printEvent(e remotesync.Event) {
	var line string
	switch {
	case e.Failed():
		line = errStyle.Render(string(e.Type)) + " " + e.Message
	case e.Type == remotesync.EventSyncSucceeded || e.Type == remotesync.EventPullSucceeded:
		line = okStyle.Render(e.String())
	default:
		line = mutedStyle.Render(e.String())
	}
	fmt.Fprintln(os.Stderr, line)
}

// Package noteflow is the composition root of NoteFlow, a local-first note
// store with a debounced, single-writer sync engine.
//
// Every edit is applied in memory and persisted to a local JSON file
// immediately. When a remote store and a user session are configured, the
// sync engine collapses bursts of edits into one upload of the whole
// document, times out slow remotes, and reports each transition as an
// Event.
//
// Usage:
//
//	app, err := noteflow.Open("./notes",
//		noteflow.WithRemote(remote),
//		noteflow.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer app.Close(ctx)
//
//	if err := app.BeginSession(ctx, "user-id"); err != nil {
//		logger.Warn("remote unavailable", "error", err)
//	}
//	n, err := app.Service.QuickCapture("Groceries", "eggs, milk")
package noteflow

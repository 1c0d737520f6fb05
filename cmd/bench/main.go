package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/memory"
	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	edits := flag.Int("edits", 200, "Edits in the burst against one note")
	debounce := flag.Duration("debounce", 200*time.Millisecond, "Sync debounce")
	keep := flag.Bool("keep", false, "Keep the benchmark data dir after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "noteflow_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	remote := memory.New()
	ctx := context.Background()

	app, err := platform.Open(benchDir,
		platform.WithLogger(logger),
		platform.WithRemote(remote),
		platform.WithDebounce(*debounce),
	)
	if err != nil {
		panic(err)
	}
	if err := app.BeginSession(ctx, "bench"); err != nil {
		panic(err)
	}

	// Run 1: every capture rewrites the whole local file.
	fmt.Printf("Generating %d notes in %s...\n", *count, benchDir)
	startGen := time.Now()
	var lastID string
	for i := 0; i < *count; i++ {
		n, err := app.Service.QuickCapture(fmt.Sprintf("Note %d", i), "<p>This is a <b>benchmark</b> note.</p>")
		if err != nil {
			panic(err)
		}
		lastID = n.ID
	}
	genTook := time.Since(startGen)

	// Run 2: a burst of edits should collapse into very few uploads.
	writesBefore := remote.Writes()
	startBurst := time.Now()
	for i := 0; i < *edits; i++ {
		if err := app.Service.SetBody(lastID, fmt.Sprintf("<p>edit %d</p>", i)); err != nil {
			panic(err)
		}
	}
	burstTook := time.Since(startBurst)
	for app.Engine.Phase() != remotesync.PhaseIdle {
		time.Sleep(10 * time.Millisecond)
	}
	settled := time.Since(startBurst)
	uploads := remote.Writes() - writesBefore

	if err := app.Close(ctx); err != nil {
		panic(err)
	}

	// Run 3: cold open decodes the whole file again.
	startOpen := time.Now()
	reopened, err := platform.Open(benchDir, platform.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	notes := len(reopened.Service.Document().Notes)
	openTook := time.Since(startOpen)
	_ = reopened.Close(ctx)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %d edits):\n", *count, *edits)
	fmt.Printf("  Generate:     %v (%v per note)\n", genTook, genTook/time.Duration(max(*count, 1)))
	fmt.Printf("  Edit burst:   %v, settled after %v\n", burstTook, settled)
	fmt.Printf("  Uploads:      %d (max in flight %d)\n", uploads, remote.MaxConcurrent())
	fmt.Printf("  Cold open:    %v (Items: %d)\n", openTook, notes)
	fmt.Printf("--------------------------------------------------\n")
}

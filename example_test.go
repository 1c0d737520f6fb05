package noteflow_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/NUMNIMx/noteflow"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/memory"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Example_basic captures a note and reads it back after reopening.
func Example_basic() {
	dir, err := os.MkdirTemp("", "noteflow-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	app, err := noteflow.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	n, err := app.Service.QuickCapture("Groceries", "eggs, milk")
	if err != nil {
		log.Fatal(err)
	}
	if err := app.Close(ctx); err != nil {
		log.Fatal(err)
	}

	again, err := noteflow.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer again.Close(ctx)

	got, err := again.Service.Note(n.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(got.Title)
	// Output:
	// Groceries
}

// Example_sync pushes pending edits to a remote when the app closes.
func Example_sync() {
	dir, err := os.MkdirTemp("", "noteflow-sync-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	remote := memory.New()
	app, err := noteflow.Open(dir, noteflow.WithRemote(remote))
	if err != nil {
		log.Fatal(err)
	}
	if err := app.BeginSession(ctx, "gopher"); err != nil {
		log.Fatal(err)
	}
	if _, err := app.Service.QuickCapture("Hello", "from the CLI"); err != nil {
		log.Fatal(err)
	}
	if err := app.Close(ctx); err != nil {
		log.Fatal(err)
	}

	rec, ok := remote.Get(core.UserKey("gopher"))
	if !ok {
		log.Fatal("nothing pushed")
	}
	doc, err := core.DecodeDocument(rec.Payload)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(doc.Notes), doc.Notes[0].Title)
	// Output:
	// 1 Hello
}

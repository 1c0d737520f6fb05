package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Save, list and restore note versions",
}

var historySaveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Snapshot the current title and body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		saved, err := app.Service.SaveSnapshot(n.ID)
		if err != nil {
			fatal("Failed to save snapshot", err)
		}
		closeApp(ctx, app)
		if !saved {
			fmt.Println(mutedStyle.Render("unchanged since the last snapshot"))
		}
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List saved versions, oldest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		n := resolveNote(app, args[0])
		entries, err := app.Service.History(n.ID)
		if err != nil {
			fatal("Failed to read history", err)
		}
		for i, e := range entries {
			fmt.Printf("%3d  %s  %s\n", i, mutedStyle.Render(time.UnixMilli(e.SavedAt).Format(time.DateTime)), e.Title)
		}
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id> <index>",
	Short: "Copy a saved version back into the note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			fatal("Invalid index", err)
		}
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.RestoreSnapshot(n.ID, index); err != nil {
			fatal("Failed to restore snapshot", err)
		}
		closeApp(ctx, app)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historySaveCmd, historyListCmd, historyRestoreCmd)
}

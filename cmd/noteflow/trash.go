package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash <id>",
	Short: "Move a note to the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.Trash(n.ID); err != nil {
			fatal("Failed to trash note", err)
		}
		closeApp(ctx, app)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Bring a note back from the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.Restore(n.ID); err != nil {
			fatal("Failed to restore note", err)
		}
		closeApp(ctx, app)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.DeletePermanently(n.ID); err != nil {
			fatal("Failed to delete note", err)
		}
		closeApp(ctx, app)
	},
}

var emptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Delete every note in the trash",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		removed, err := app.Service.EmptyTrash()
		if err != nil {
			fatal("Failed to empty trash", err)
		}
		closeApp(ctx, app)
		fmt.Printf("%d notes deleted\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(trashCmd, restoreCmd, rmCmd, emptyTrashCmd)
}

package main

import (
	"context"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <id> <pin>",
	Short: "Protect a note with a 4-digit PIN",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.Lock(n.ID, args[1]); err != nil {
			fatal("Failed to lock note", err)
		}
		closeApp(ctx, app)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <id> <pin>",
	Short: "Remove the PIN from a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.Unlock(n.ID, args[1]); err != nil {
			fatal("Failed to unlock note", err)
		}
		closeApp(ctx, app)
	},
}

func init() {
	rootCmd.AddCommand(lockCmd, unlockCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var notebookCmd = &cobra.Command{
	Use:     "notebook",
	Aliases: []string{"nb"},
	Short:   "Manage notebooks",
}

var notebookAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a notebook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		nb, err := app.Service.CreateNotebook(args[0])
		if err != nil {
			fatal("Failed to create notebook", err)
		}
		closeApp(ctx, app)
		fmt.Println(nb.ID)
	},
}

var notebookRenameCmd = &cobra.Command{
	Use:   "rename <notebook> <name>",
	Short: "Rename a notebook",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		nb := resolveNotebook(app, args[0])
		if err := app.Service.RenameNotebook(nb.ID, args[1]); err != nil {
			fatal("Failed to rename notebook", err)
		}
		closeApp(ctx, app)
	},
}

var notebookRmCmd = &cobra.Command{
	Use:   "rm <notebook>",
	Short: "Delete a notebook, keeping its notes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		nb := resolveNotebook(app, args[0])
		if err := app.Service.DeleteNotebook(nb.ID); err != nil {
			fatal("Failed to delete notebook", err)
		}
		closeApp(ctx, app)
	},
}

var notebookLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notebooks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		active := string(app.Service.Settings().ActiveNotebookID)
		for _, nb := range app.Service.Notebooks() {
			name := nb.Name
			if nb.ID == active {
				name = titleStyle.Render(name)
			}
			fmt.Printf("%s %s %s\n", mutedStyle.Render(shortID(nb.ID)), name,
				mutedStyle.Render(fmt.Sprintf("(%d)", app.Service.NotebookCount(nb.ID))))
		}
	},
}

var notebookSelectCmd = &cobra.Command{
	Use:   "select [notebook]",
	Short: "Scope new and listed notes to a notebook; no argument selects all",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		id := ""
		if len(args) == 1 {
			id = resolveNotebook(app, args[0]).ID
		}
		if err := app.Service.SelectNotebook(id); err != nil {
			fatal("Failed to select notebook", err)
		}
		closeApp(ctx, app)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id> [notebook]",
	Short: "File a note under a notebook; no notebook unfiles it",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		target := ""
		if len(args) == 2 {
			target = resolveNotebook(app, args[1]).ID
		}
		if err := app.Service.MoveToNotebook(n.ID, target); err != nil {
			fatal("Failed to move note", err)
		}
		closeApp(ctx, app)
	},
}

func init() {
	rootCmd.AddCommand(notebookCmd, moveCmd)
	notebookCmd.AddCommand(notebookAddCmd, notebookRenameCmd, notebookRmCmd, notebookLsCmd, notebookSelectCmd)
}

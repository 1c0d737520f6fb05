package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/export"
)

var (
	newTitle string
	newBody  string
	newTags  []string

	editTitle string
	editBody  string

	showPIN string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note in the selected notebook",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)

		n, err := app.Service.CreateNote()
		if err != nil {
			fatal("Failed to create note", err)
		}
		if newTitle != "" || newBody != "" {
			if err := app.Service.UpdateContent(n.ID, newTitle, newBody); err != nil {
				fatal("Failed to write note", err)
			}
		}
		for _, t := range newTags {
			if err := app.Service.AddTag(n.ID, t); err != nil {
				fatal("Failed to tag note", err)
			}
		}

		closeApp(ctx, app)
		fmt.Println(n.ID)
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture <title> [body]",
	Short: "Quickly capture a note outside any notebook",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		body := ""
		if len(args) == 2 {
			body = args[1]
		}

		ctx := context.Background()
		app := openApp(ctx)
		n, err := app.Service.QuickCapture(args[0], body)
		if err != nil {
			fatal("Failed to capture note", err)
		}
		closeApp(ctx, app)

		if n == nil {
			fmt.Println(mutedStyle.Render("nothing to capture"))
			return
		}
		fmt.Println(n.ID)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		n := resolveNote(app, args[0])
		if n.Locked {
			if err := app.Service.VerifyPIN(n.ID, showPIN); err != nil {
				fatal("Note is locked", err)
			}
		}

		fmt.Println(swatch(n.Color) + " " + titleStyle.Render(export.Title(n)))
		fmt.Println(labelStyle.Render("id") + n.ID)
		fmt.Println(labelStyle.Render("updated") + time.UnixMilli(n.UpdatedAt).Format(time.DateTime))
		if len(n.Tags) > 0 {
			fmt.Println(labelStyle.Render("tags") + renderTags(n.Tags))
		}
		if n.Pinned {
			fmt.Println(labelStyle.Render("pinned") + "yes")
		}
		fmt.Println()
		fmt.Println(export.PlainBody(n.Body))
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title or body of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("body") {
			fatal("Nothing to edit", fmt.Errorf("pass --title or --body"))
		}

		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if cmd.Flags().Changed("title") {
			if err := app.Service.SetTitle(n.ID, editTitle); err != nil {
				fatal("Failed to set title", err)
			}
		}
		if cmd.Flags().Changed("body") {
			if err := app.Service.SetBody(n.ID, editBody); err != nil {
				fatal("Failed to set body", err)
			}
		}
		closeApp(ctx, app)
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle whether a note is pinned",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		pinned, err := app.Service.TogglePinned(n.ID)
		if err != nil {
			fatal("Failed to pin note", err)
		}
		closeApp(ctx, app)
		if pinned {
			fmt.Println(okStyle.Render("pinned"))
		} else {
			fmt.Println(mutedStyle.Render("unpinned"))
		}
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <id> <color>",
	Short: "Set the color of a note (" + strings.Join(core.Colors, ", ") + ")",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.SetColor(n.ID, args[1]); err != nil {
			fatal("Failed to set color", err)
		}
		closeApp(ctx, app)
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove note tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>",
	Short: "Tag a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.AddTag(n.ID, args[1]); err != nil {
			fatal("Failed to add tag", err)
		}
		closeApp(ctx, app)
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id> <tag>",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		n := resolveNote(app, args[0])
		if err := app.Service.RemoveTag(n.ID, args[1]); err != nil {
			fatal("Failed to remove tag", err)
		}
		closeApp(ctx, app)
	},
}

func renderTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = tagStyle.Render("#" + t)
	}
	return strings.Join(out, " ")
}

func init() {
	rootCmd.AddCommand(newCmd, captureCmd, showCmd, editCmd, pinCmd, colorCmd, tagCmd)
	tagCmd.AddCommand(tagAddCmd, tagRmCmd)

	newCmd.Flags().StringVar(&newTitle, "title", "", "Note title")
	newCmd.Flags().StringVar(&newBody, "body", "", "Note body (HTML)")
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Tags to add (repeatable)")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editBody, "body", "", "New body (HTML)")

	showCmd.Flags().StringVar(&showPIN, "pin", "", "PIN of a locked note")
}

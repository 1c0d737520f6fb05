package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/pkg/core"
	"github.com/NUMNIMx/noteflow/pkg/export"
)

var (
	listJSON   bool
	listSearch string
	listTag    string
	listSince  string
	listTrash  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the selected notebook",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		q := core.Query{Search: listSearch, TagPattern: listTag, Trash: listTrash}
		if listSince != "" {
			since, err := parseTime(listSince, app.Service.Now())
			if err != nil {
				fatal("Invalid --since", err)
			}
			q.Since = since
		}

		notes, err := app.Service.ListNotes(q)
		if err != nil {
			fatal("Error listing notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(notes) == 0 {
			fmt.Println(mutedStyle.Render("no notes"))
			return
		}
		for _, n := range notes {
			marker := " "
			switch {
			case n.Pinned:
				marker = "*"
			case n.Locked:
				marker = "!"
			}
			line := fmt.Sprintf("%s %s %s %s", swatch(n.Color), mutedStyle.Render(shortID(n.ID)), marker, export.Title(n))
			if len(n.Tags) > 0 {
				line += " " + renderTags(n.Tags)
			}
			line += " " + mutedStyle.Render(time.UnixMilli(n.UpdatedAt).Format("Jan 2 15:04"))
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match title or text")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag glob, e.g. work/*")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only notes updated since (2026-03-01, 72h, \"last week\")")
	listCmd.Flags().BoolVar(&listTrash, "trash", false, "List the trash")
}

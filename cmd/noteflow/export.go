package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/pkg/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a note as Markdown or plain text",
	Long: `Export writes the note to a file named after its title in the current
directory. Use -o to pick the path, or -o - for standard output.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		n := resolveNote(app, args[0])
		text, err := export.Render(n, exportFormat)
		if err != nil {
			fatal("Failed to export note", err)
		}

		if exportOut == "-" {
			fmt.Println(text)
			return
		}
		path := exportOut
		if path == "" {
			path = export.Filename(n, exportFormat)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			fatal("Failed to write export", err)
		}
		fmt.Println(path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatMarkdown, "md or txt")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output path, - for stdout")
}

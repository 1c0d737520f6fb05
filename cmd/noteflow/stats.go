package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

var (
	statsJSON bool
	statsAsOf string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show note counts, top tags and recent activity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer closeApp(ctx, app)

		now := app.Service.Now()
		if statsAsOf != "" {
			t, err := parseTime(statsAsOf, now)
			if err != nil {
				fatal("Invalid --as-of", err)
			}
			now = t
		}
		st := app.Service.Stats(now)

		if statsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(st); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Println(titleStyle.Render("Overview"))
		fmt.Println(labelStyle.Render("notes") + fmt.Sprint(st.Notes))
		fmt.Println(labelStyle.Render("trashed") + fmt.Sprint(st.Trashed))
		fmt.Println(labelStyle.Render("notebooks") + fmt.Sprint(st.Notebooks))
		fmt.Println(labelStyle.Render("words") + fmt.Sprint(st.Words))
		fmt.Println(labelStyle.Render("streak") + fmt.Sprintf("%d days", st.Streak))

		printCounts("Top tags", st.TopTags)
		printCounts("Top notebooks", st.TopNotebooks)

		fmt.Println()
		fmt.Println(titleStyle.Render(fmt.Sprintf("Last %d days", core.ActivityDays)))
		fmt.Println(sparkline(st.Activity))
	},
}

func printCounts(title string, counts []core.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render(title))
	for _, c := range counts {
		fmt.Println(labelStyle.Render(c.Label) + fmt.Sprint(c.Count))
	}
}

var bars = []rune(" ▁▂▃▄▅▆▇█")

func sparkline(days []core.DayActivity) string {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	var b strings.Builder
	for _, d := range days {
		i := 0
		if peak > 0 {
			i = d.Count * (len(bars) - 1) / peak
		}
		b.WriteRune(bars[i])
	}
	return okStyle.Render(b.String())
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	statsCmd.Flags().StringVar(&statsAsOf, "as-of", "", "Compute as of a past time (2026-03-01, \"last friday\")")
}

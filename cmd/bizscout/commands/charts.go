package commands

import (
	"bizscout-backend/lib/series"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(evolutionCmd)
}

func renderSeries(s series.Series) {
	t := newTable()
	t.AppendHeader(table.Row{"", "Note"})
	for _, point := range s {
		t.AppendRow(table.Row{point.Label, scoreCell(point.Score)})
	}
	t.Render()
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Puts the scores of every analyzed business side by side.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		ctx := cmd.Context()

		store := openHistory(ctx, config)
		renderSeries(series.Comparison(store.ReadAll(ctx)))
	},
}

var evolutionCmd = &cobra.Command{
	Use:   "evolution",
	Short: "Shows how scores evolved across analyses over time.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		ctx := cmd.Context()

		store := openHistory(ctx, config)
		renderSeries(series.Evolution(store.ReadAll(ctx)))
	},
}

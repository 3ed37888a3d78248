package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints every stored analysis in insertion order.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		ctx := cmd.Context()

		store := openHistory(ctx, config)
		entries := store.ReadAll(ctx)

		t := newTable()
		t.AppendHeader(table.Row{"#", "Date", "Site", "Titre", "Localisation", "Prix", "C.A.", "Effectif", "Note"})
		for i, entry := range entries {
			t.AppendRow(table.Row{
				i + 1,
				entry.CreatedAt.Format("2006-01-02 15:04"),
				entry.Site,
				entry.Title,
				entry.Location,
				entry.Price,
				entry.Revenue,
				entry.Employees,
				scoreCell(entry.Score),
			})
		}
		t.Render()
	},
}

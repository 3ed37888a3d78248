package commands

import (
	"log/slog"

	"bizscout-backend/lib/scoring"
	"bizscout-backend/lib/serviceutil"
	"bizscout-backend/services/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Fetches a listing page, scores it and appends the result to the history.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		ctx := cmd.Context()

		store := openStore(ctx, config)
		fetcher, err := pipeline.NewFetcher(config.Fetcher)
		if err != nil {
			serviceutil.Fatal("failed to initialize page fetcher", err)
		}
		defer fetcher.Close()

		orchestrator := pipeline.NewOrchestrator(
			newRegistry(config),
			scoring.NewClient(scoring.ClientOptions{BaseUrl: config.Backend.BaseUrl}),
			store,
		)

		page, err := fetcher.Fetch(ctx, args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch listing page", err)
		}

		entry, err := orchestrator.Analyze(ctx, page)
		if err != nil {
			serviceutil.Fatal("analysis failed", err)
		}

		// remember the site of the last successful analysis
		err = store.SetSelectedSite(ctx, entry.Site)
		if err != nil {
			slog.WarnContext(ctx, "failed to persist selected site", "err", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Champ", "Valeur"})
		t.AppendRows([]table.Row{
			{"Site", entry.Site},
			{"Titre", entry.Title},
			{"Localisation", entry.Location},
			{"Prix", entry.Price},
			{"Chiffre d'affaires", entry.Revenue},
			{"Employés", entry.Employees},
			{"Note", scoreCell(entry.Score)},
			{"Explication", entry.Explanation},
		})
		t.Render()
	},
}

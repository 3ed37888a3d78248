package commands

import (
	"fmt"
	"sort"

	"bizscout-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(siteCmd)
}

var siteCmd = &cobra.Command{
	Use:   "site [id]",
	Short: "Prints the configured sites, or selects the site to use by default.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		ctx := cmd.Context()

		store := openHistory(ctx, config)
		registry := newRegistry(config)

		if len(args) == 1 {
			_, err := registry.Resolve(args[0])
			if err != nil {
				serviceutil.Fatal(fmt.Sprintf("cannot select site %q", args[0]), err)
			}
			err = store.SetSelectedSite(ctx, args[0])
			if err != nil {
				serviceutil.Fatal("failed to persist selected site", err)
			}
		}

		selected := store.SelectedSite(ctx)

		ids := registry.Sites()
		sort.Strings(ids)

		t := newTable()
		t.AppendHeader(table.Row{"Site", "Supporté", "Sélectionné"})
		for _, id := range ids {
			_, err := registry.Resolve(id)
			supported := ""
			if err == nil {
				supported = "oui"
			}
			marker := ""
			if id == selected {
				marker = "*"
			}
			t.AppendRow(table.Row{id, supported, marker})
		}
		t.Render()
	},
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bizscout-backend/lib/analysisstore"
	"bizscout-backend/lib/configutil"
	configsqlite "bizscout-backend/lib/configutil/sqlite"
	"bizscout-backend/lib/serviceutil"
	"bizscout-backend/lib/sites"
	"bizscout-backend/services/pipeline"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bizscout",
	Short: "bizscout scores business-for-sale listings and keeps the analysis history.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type BackendConfig struct {
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Database configsqlite.Struct         `json:"database"`
	Backend  BackendConfig               `json:"backend"`
	Fetcher  pipeline.FetcherConfig      `json:"fetcher"`
	Site     map[string]sites.SiteConfig `json:"sites"`
}

func readConfig() Config {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Database.File == "" {
		config.Database.File = "bizscout.db"
	}
	if config.Backend.BaseUrl == "" {
		config.Backend.BaseUrl = "http://localhost:8444"
	}
	return config
}

func newRegistry(config Config) *sites.Registry {
	siteConfig := sites.DefaultConfig()
	for id, c := range config.Site {
		siteConfig[id] = c
	}
	return sites.NewRegistry(siteConfig)
}

func openStore(ctx context.Context, config Config) analysisstore.Store {
	db, err := config.Database.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	store, err := analysisstore.Open(ctx, db)
	if err != nil {
		serviceutil.Fatal("failed to open analysis history", err)
	}
	return store
}

// openHistory is the read-side twin of openStore: a corrupt or
// unreadable database reads as an empty history instead of killing
// the command. Writes against the degraded view still fail loudly.
func openHistory(ctx context.Context, config Config) analysisstore.Store {
	db, err := config.Database.OpenDB()
	if err == nil {
		var store analysisstore.Store
		store, err = analysisstore.Open(ctx, db)
		if err == nil {
			return store
		}
	}
	slog.WarnContext(ctx, "analysis history is unreadable, treating as empty", "err", err)
	return analysisstore.Degraded()
}

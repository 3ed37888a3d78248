package main

import (
	"context"
	"net/http"

	"bizscout-backend/lib/configutil"
	"bizscout-backend/lib/serviceutil"
	"bizscout-backend/lib/sites"
	"bizscout-backend/lib/telemetry"
	"bizscout-backend/services/analyzer"
)

type Config struct {
	Port int                         `json:"port"`
	Llm  analyzer.LLMConfig          `json:"llm"`
	Site map[string]sites.SiteConfig `json:"sites"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8444
	}

	t, err := telemetry.SetupFromEnv(ctx, "analyzerd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	siteConfig := sites.DefaultConfig()
	for id, c := range config.Site {
		siteConfig[id] = c
	}

	mux := http.NewServeMux()
	service := analyzer.NewService(
		analyzer.NewLLMClient(config.Llm),
		sites.NewRegistry(siteConfig),
	)
	service.Register(mux)
	go serviceutil.StartHttpServer(config.Port, mux)

	<-ctx.Done()
}

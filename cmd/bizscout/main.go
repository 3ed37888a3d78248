package main

import (
	"context"

	"bizscout-backend/cmd/bizscout/commands"
	"bizscout-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "bizscout")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}

package telemetry

import (
	"context"
	"os"
	"testing"

	"bizscout-backend/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

var setupTestEnvironments = map[string]bool{}

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once. when no telemetry.json5 exists in the tree,
// providers without exporters are installed so spans go nowhere.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)

	_, err := configutil.ReadRecursively[config]("telemetry.json5")
	if os.IsNotExist(err) {
		otel.SetTracerProvider(trace.NewTracerProvider())
		otel.SetMeterProvider(metric.NewMeterProvider())
		return func() {}
	}
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	tel, err := SetupFromEnv(ctx, serviceName)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(ctx)
		if err != nil {
			t.Fatal(err)
		}
	}
}

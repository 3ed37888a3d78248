// Package pipeline drives one analysis from a fetched page to a stored
// history entry: resolve the site, extract the listing, gate on
// completeness, score, persist.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"bizscout-backend/lib/analysisstore"
	"bizscout-backend/lib/extract"
	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/scoring"
	"bizscout-backend/lib/sites"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/pipeline")

// IncompleteExtractionError means the page resolved to a supported site
// but at least one listing field could not be located. Terminal: an
// incomplete record is never scored.
type IncompleteExtractionError struct {
	Missing []string
}

func (e IncompleteExtractionError) Error() string {
	return fmt.Sprintf("listing is missing required fields: %s", strings.Join(e.Missing, ", "))
}

type Orchestrator struct {
	registry *sites.Registry
	scorer   *scoring.Client
	store    analysisstore.Store
}

func NewOrchestrator(registry *sites.Registry, scorer *scoring.Client, store analysisstore.Store) Orchestrator {
	return Orchestrator{
		registry: registry,
		scorer:   scorer,
		store:    store,
	}
}

// RequestExtraction resolves the page's site and runs the extractor in
// its own goroutine, delivering the record over a channel. The caller
// suspends until the record arrives or ctx is done; abandoning the wait
// does not cancel the extraction itself. Requests are independent and
// carry no ordering between each other.
func (o Orchestrator) RequestExtraction(ctx context.Context, page Page) (listing.Record, error) {
	ctx, span := tracer.Start(ctx, "RequestExtraction")
	defer span.End()

	adapter, err := o.registry.Resolve(page.Origin.Hostname())
	if err != nil {
		span.SetStatus(codes.Error, "unsupported site")
		return listing.Record{}, err
	}
	span.SetAttributes(attribute.String("site", adapter.Site))

	out := make(chan listing.Record, 1)
	go func() {
		out <- extract.Extract(page.Doc, adapter)
	}()

	select {
	case record := <-out:
		return record, nil
	case <-ctx.Done():
		span.SetStatus(codes.Error, "abandoned waiting for extraction")
		return listing.Record{}, ctx.Err()
	}
}

// Analyze runs the full sequence for one page: extract, check
// completeness, score, append to history. Each step only runs after the
// previous one succeeded.
func (o Orchestrator) Analyze(ctx context.Context, page Page) (analysisstore.Entry, error) {
	ctx, span := tracer.Start(ctx, "Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("url", page.Origin.String()))

	record, err := o.RequestExtraction(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return analysisstore.Entry{}, err
	}

	if !record.Complete() {
		err := IncompleteExtractionError{Missing: record.MissingFields()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "incomplete extraction")
		return analysisstore.Entry{}, err
	}

	result, err := o.scorer.Score(ctx, record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return analysisstore.Entry{}, err
	}

	entry, err := o.store.Append(ctx, record, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist analysis")
		return analysisstore.Entry{}, err
	}

	span.SetAttributes(attribute.Int("score", entry.Score))
	return entry, nil
}

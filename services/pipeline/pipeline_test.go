package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"bizscout-backend/lib/analysisstore"
	"bizscout-backend/lib/analysisstore/db"
	"bizscout-backend/lib/scoring"
	"bizscout-backend/lib/sites"
	"bizscout-backend/lib/testutil"
	"bizscout-backend/services/analyzer"

	"github.com/stretchr/testify/require"
)

const fixturePage = `
<html>
<body>
<header>
  <h1 class="block-title">Boulangerie Centre-Ville <small>Lyon 3e</small></h1>
</header>
<dl>
  <dt>Prix de vente</dt><dd>150 000 €</dd>
  <dt>C.A. annuel</dt><dd>80 000 €</dd>
  <dt>Effectif</dt><dd>2</dd>
</dl>
<div class="text-annonce"><p>Commerce de proximité</p></div>
</body>
</html>`

// a fixture page with no price entry, extraction leaves the field empty
const incompletePage = `
<html>
<body>
<header>
  <h1 class="block-title">Boulangerie Centre-Ville <small>Lyon 3e</small></h1>
</header>
<dl>
  <dt>C.A. annuel</dt><dd>80 000 €</dd>
  <dt>Effectif</dt><dd>2</dd>
</dl>
<div class="text-annonce"><p>Commerce de proximité</p></div>
</body>
</html>`

// stubBackend runs the real scoring backend against a canned model
// reply and returns a client pointed at it.
func stubBackend(t *testing.T, replyText string) *scoring.Client {
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": replyText}},
			},
		})
	}))
	t.Cleanup(model.Close)

	service := analyzer.NewService(
		analyzer.NewLLMClient(analyzer.LLMConfig{BaseUrl: model.URL, ApiKey: "test-key"}),
		sites.Default(),
	)
	mux := http.NewServeMux()
	service.Register(mux)
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	return scoring.NewClient(scoring.ClientOptions{BaseUrl: backend.URL})
}

func setupOrchestrator(t *testing.T, replyText string) (Orchestrator, analysisstore.Store) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "pipeline",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	store, err := analysisstore.Open(context.Background(), result.DB)
	require.NoError(t, err)

	return NewOrchestrator(sites.Default(), stubBackend(t, replyText), store), store
}

func fixture(t *testing.T, origin, page string) Page {
	p, err := NewPage(origin, []byte(page))
	require.NoError(t, err)
	return p
}

func TestAnalyzeEndToEnd(t *testing.T) {
	orchestrator, store := setupOrchestrator(t, "Note: 72\n### Explication\nBon potentiel.")
	ctx := context.Background()

	page := fixture(t, "https://www.transentreprise.com/annonce/4821", fixturePage)
	entry, err := orchestrator.Analyze(ctx, page)
	require.NoError(t, err)

	require.Equal(t, 72, entry.Score)
	require.Equal(t, "Explication<br>Bon potentiel.", entry.Explanation)
	require.Equal(t, "transentreprise", entry.Site)
	require.True(t, entry.Complete())

	entries := store.ReadAll(ctx)
	require.Len(t, entries, 1)
	require.Equal(t, entry.ID, entries[0].ID)
	require.Equal(t, entry.Record, entries[0].Record)
	require.Equal(t, entry.ScoreResult, entries[0].ScoreResult)
}

func TestRequestExtractionUnsupportedSite(t *testing.T) {
	orchestrator, _ := setupOrchestrator(t, "Note: 72\nok")
	ctx := context.Background()

	// cessionpme is registered but defines no locators
	page := fixture(t, "https://www.cessionpme.com/annonce/1", fixturePage)
	_, err := orchestrator.RequestExtraction(ctx, page)
	require.ErrorIs(t, err, sites.ErrUnsupportedSite)

	page = fixture(t, "https://www.leboncoin.fr/annonce/1", fixturePage)
	_, err = orchestrator.RequestExtraction(ctx, page)
	require.ErrorIs(t, err, sites.ErrUnsupportedSite)
}

func TestAnalyzeIncompleteExtraction(t *testing.T) {
	orchestrator, store := setupOrchestrator(t, "Note: 72\nok")
	ctx := context.Background()

	page := fixture(t, "https://www.transentreprise.com/annonce/4821", incompletePage)
	_, err := orchestrator.Analyze(ctx, page)

	var incomplete IncompleteExtractionError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, []string{"price"}, incomplete.Missing)

	// nothing incomplete ever reaches the history
	require.Empty(t, store.ReadAll(ctx))
}

func TestAnalyzeBackendFailure(t *testing.T) {
	orchestrator, store := setupOrchestrator(t, "réponse sans note")
	ctx := context.Background()

	page := fixture(t, "https://www.transentreprise.com/annonce/4821", fixturePage)
	_, err := orchestrator.Analyze(ctx, page)

	var backendErr *scoring.BackendError
	require.ErrorAs(t, err, &backendErr)
	require.Empty(t, store.ReadAll(ctx))
}

func TestFetcherCaching(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(fixturePage))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(FetcherConfig{CacheTtlSeconds: 3600})
	require.NoError(t, err)
	defer fetcher.Close()

	ctx := context.Background()
	pageUrl := server.URL + "/annonce/4821"

	page, err := fetcher.Fetch(ctx, pageUrl)
	require.NoError(t, err)
	require.Equal(t, 1, hits)

	serverUrl, err := url.Parse(server.URL)
	require.NoError(t, err)
	require.Equal(t, serverUrl.Hostname(), page.Origin.Hostname())
	require.Contains(t, page.Doc.Find("header h1.block-title").Text(), "Boulangerie")

	// second fetch is served from the cache
	_, err = fetcher.Fetch(ctx, pageUrl)
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestFetcherCacheExpiry(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(fixturePage))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(FetcherConfig{CacheTtlSeconds: -1})
	require.NoError(t, err)
	defer fetcher.Close()

	ctx := context.Background()
	pageUrl := server.URL + "/annonce/4821"

	_, err = fetcher.Fetch(ctx, pageUrl)
	require.NoError(t, err)
	_, err = fetcher.Fetch(ctx, pageUrl)
	require.NoError(t, err)
	require.Equal(t, 2, hits)
}

func TestFetcherErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(FetcherConfig{})
	require.NoError(t, err)
	defer fetcher.Close()

	_, err = fetcher.Fetch(context.Background(), server.URL+"/missing")
	require.Error(t, err)
}

func TestNewPageRejectsBadUrls(t *testing.T) {
	_, err := NewPage("not a url at all\x7f", []byte(fixturePage))
	require.Error(t, err)

	_, err = NewPage("/relative/path", []byte(fixturePage))
	require.Error(t, err)
}

func TestRequestExtractionAbandonedWait(t *testing.T) {
	orchestrator, _ := setupOrchestrator(t, "Note: 72\nok")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	page := fixture(t, "https://www.transentreprise.com/annonce/4821", fixturePage)
	record, err := orchestrator.RequestExtraction(ctx, page)
	if err != nil {
		require.ErrorIs(t, err, context.DeadlineExceeded)
		return
	}
	// the extraction may still win the race against an expired context
	require.True(t, record.Complete())
}

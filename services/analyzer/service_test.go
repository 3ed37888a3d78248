package analyzer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/sites"
	"bizscout-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func stubModel(t *testing.T, replyText string) *LLMClient {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Contains(t, req.Messages[1].Content, "Note: [0-100]")

		w.Header().Set("content-type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": replyText}},
			},
		})
	}))
	t.Cleanup(server.Close)

	return NewLLMClient(LLMConfig{BaseUrl: server.URL, ApiKey: "test-key"})
}

func postAnalyze(t *testing.T, service Service, body any) *httptest.ResponseRecorder {
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	service.HandleAnalyze(rec, req)
	return rec
}

var testRecord = listing.Record{
	Site:        "transentreprise",
	Title:       "Boulangerie Centre-Ville",
	Location:    "Lyon 3e",
	Price:       "150 000 €",
	Revenue:     "80 000 €",
	Employees:   "2",
	Description: "Commerce de proximité",
}

func TestHandleAnalyze(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:analyzer")
	defer cleanup()

	service := NewService(
		stubModel(t, "Note: 72\n### Explication\nBon potentiel."),
		sites.Default(),
	)

	rec := postAnalyze(t, service, testRecord)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply analyzeResponse
	err := json.Unmarshal(rec.Body.Bytes(), &reply)
	require.NoError(t, err)
	require.Equal(t, 72, reply.Score)
	require.Equal(t, "Explication<br>Bon potentiel.", reply.Explanation)
}

func TestHandleAnalyzeUnknownSite(t *testing.T) {
	service := NewService(
		stubModel(t, "Note: 72\nok"),
		sites.Default(),
	)

	record := testRecord
	record.Site = "leboncoin"
	rec := postAnalyze(t, service, record)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var reply errorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &reply)
	require.NoError(t, err)
	require.Equal(t, "Invalid site configuration", reply.Error)
}

func TestHandleAnalyzeUnparsableReply(t *testing.T) {
	service := NewService(
		stubModel(t, "Je ne peux pas évaluer cette entreprise."),
		sites.Default(),
	)

	rec := postAnalyze(t, service, testRecord)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var reply errorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &reply)
	require.NoError(t, err)
	require.NotEmpty(t, reply.Error)
}

func TestHandleAnalyzeModelUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	service := NewService(
		NewLLMClient(LLMConfig{BaseUrl: server.URL, ApiKey: "test-key"}),
		sites.Default(),
	)

	rec := postAnalyze(t, service, testRecord)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var reply errorResponse
	err := json.Unmarshal(rec.Body.Bytes(), &reply)
	require.NoError(t, err)
	require.Equal(t, "Erreur lors de l'analyse de l'entreprise.", reply.Error)
	require.NotEmpty(t, reply.Details)
}

func TestHandleAnalyzeBadBody(t *testing.T) {
	service := NewService(stubModel(t, "Note: 72\nok"), sites.Default())

	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	service.HandleAnalyze(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	service := NewService(stubModel(t, "Note: 72\nok"), sites.Default())

	req := httptest.NewRequest("GET", "/analyze", nil)
	rec := httptest.NewRecorder()
	service.HandleAnalyze(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

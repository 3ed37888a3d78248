// Package analyzer is the scoring backend: it accepts a listing record
// over plain JSON, asks the model for an acquisition rating, and parses
// the free-form reply into the score/explanation pair of the wire
// contract.
package analyzer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/sites"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/analyzer")

type Service struct {
	llm      *LLMClient
	registry *sites.Registry
}

func NewService(llm *LLMClient, registry *sites.Registry) Service {
	return Service{
		llm:      llm,
		registry: registry,
	}
}

func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("/analyze", s.HandleAnalyze)
}

type analyzeResponse struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response body", "err", err)
	}
}

func (s Service) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "HandleAnalyze")
	defer span.End()

	if r.Method != http.MethodPost {
		writeJson(w, http.StatusMethodNotAllowed, errorResponse{Error: "Méthode non autorisée"})
		return
	}

	var record listing.Record
	err := json.NewDecoder(r.Body).Decode(&record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode request body")
		writeJson(w, http.StatusBadRequest, errorResponse{
			Error:   "Corps de requête invalide",
			Details: err.Error(),
		})
		return
	}
	span.SetAttributes(
		attribute.String("site", record.Site),
		attribute.String("title", record.Title),
	)

	_, err = s.registry.Resolve(record.Site)
	if err != nil {
		span.SetStatus(codes.Error, "unknown site configuration")
		writeJson(w, http.StatusBadRequest, errorResponse{Error: "Invalid site configuration"})
		return
	}

	reply, err := s.llm.Complete(ctx, systemPrompt, BuildPrompt(record))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model completion failed")
		slog.WarnContext(ctx, "model completion failed", "site", record.Site, "err", err)
		writeJson(w, http.StatusBadGateway, errorResponse{
			Error:   "Erreur lors de l'analyse de l'entreprise.",
			Details: err.Error(),
		})
		return
	}

	score, explanation, err := ParseReply(reply)
	if errors.Is(err, ErrUnparsableScore) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reply carried no score")
		slog.WarnContext(ctx, "model reply carried no usable score", "site", record.Site)
		writeJson(w, http.StatusInternalServerError, errorResponse{
			Error:   "Erreur lors de l'analyse de l'entreprise.",
			Details: err.Error(),
		})
		return
	}

	span.SetAttributes(attribute.Int("score", score))
	writeJson(w, http.StatusOK, analyzeResponse{
		Score:       score,
		Explanation: explanation,
	})
}

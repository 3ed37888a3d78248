package series

import (
	"testing"
	"time"

	"bizscout-backend/lib/analysisstore"
	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/scoring"
	"bizscout-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func entry(title string, score int, at time.Time) analysisstore.Entry {
	return analysisstore.Entry{
		CreatedAt:   at,
		Record:      listing.Record{Title: title},
		ScoreResult: scoring.ScoreResult{Score: score},
	}
}

func TestComparison(t *testing.T) {
	now := timezone.Now()
	entries := []analysisstore.Entry{
		entry("Boulangerie", 72, now),
		entry("Garage", 31, now),
	}

	s := Comparison(entries)
	require.Equal(t, Series{
		{Label: "Analyse 1: Boulangerie", Score: 72},
		{Label: "Analyse 2: Garage", Score: 31},
	}, s)
}

func TestEvolution(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 30, 0, 0, timezone.Location)
	s := Evolution([]analysisstore.Entry{entry("Boulangerie", 72, at)})
	require.Equal(t, Series{{Label: "2024-06-01 10:30", Score: 72}}, s)
}

func TestScoreBand(t *testing.T) {
	require.Equal(t, BandHigh, ScoreBand(75))
	require.Equal(t, BandHigh, ScoreBand(100))
	require.Equal(t, BandMedium, ScoreBand(50))
	require.Equal(t, BandMedium, ScoreBand(74))
	require.Equal(t, BandLow, ScoreBand(49))
	require.Equal(t, BandLow, ScoreBand(0))

	require.Equal(t, "#4CAF50", ScoreBand(80).Hex())
}

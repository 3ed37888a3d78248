// Package series turns the stored analysis history into the numeric
// series consumed by the comparison and evolution views. Rendering is
// someone else's job; everything here is a pure function of the
// entries.
package series

import (
	"fmt"

	"bizscout-backend/lib/analysisstore"
)

type Point struct {
	Label string
	Score int
}

type Series []Point

// Comparison labels each entry by its position and title so scores of
// different businesses can be read side by side.
func Comparison(entries []analysisstore.Entry) Series {
	out := make(Series, len(entries))
	for i, entry := range entries {
		out[i] = Point{
			Label: fmt.Sprintf("Analyse %d: %s", i+1, entry.Title),
			Score: entry.Score,
		}
	}
	return out
}

// Evolution orders scores by insertion time, labelled by date, to show
// how ratings drift across repeated runs.
func Evolution(entries []analysisstore.Entry) Series {
	out := make(Series, len(entries))
	for i, entry := range entries {
		out[i] = Point{
			Label: entry.CreatedAt.Format("2006-01-02 15:04"),
			Score: entry.Score,
		}
	}
	return out
}

type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// ScoreBand buckets a score into the color bands the views use:
// 75 and above is high, 50 and above is medium, the rest is low.
func ScoreBand(score int) Band {
	switch {
	case score >= 75:
		return BandHigh
	case score >= 50:
		return BandMedium
	default:
		return BandLow
	}
}

// Hex returns the presentation color of a band.
func (b Band) Hex() string {
	switch b {
	case BandHigh:
		return "#4CAF50"
	case BandMedium:
		return "#FFA500"
	default:
		return "#FF0000"
	}
}

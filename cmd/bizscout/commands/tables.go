package commands

import (
	"os"
	"strconv"

	"bizscout-backend/lib/series"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// scoreCell renders a score in the band color of the popup views.
func scoreCell(score int) string {
	var color text.Color
	switch series.ScoreBand(score) {
	case series.BandHigh:
		color = text.FgGreen
	case series.BandMedium:
		color = text.FgYellow
	default:
		color = text.FgRed
	}
	return color.Sprint(strconv.Itoa(score))
}

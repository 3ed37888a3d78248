package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	score, explanation, err := ParseReply("Note: 87\n<h2>Explication</h2><div>Good fit</div>")
	require.NoError(t, err)
	require.Equal(t, 87, score)
	require.Equal(t, "<h2>Explication</h2><div>Good fit</div>", explanation)
}

func TestParseReplyStripsMarkdown(t *testing.T) {
	score, explanation, err := ParseReply("Note: 72\n### Explication\nBon potentiel.")
	require.NoError(t, err)
	require.Equal(t, 72, score)
	require.Equal(t, "Explication<br>Bon potentiel.", explanation)
}

func TestParseReplyNoteMidText(t *testing.T) {
	score, explanation, err := ParseReply("Voici mon analyse.\nNote: 45\nLe prix est élevé.")
	require.NoError(t, err)
	require.Equal(t, 45, score)
	require.Equal(t, "Voici mon analyse.<br>Le prix est élevé.", explanation)
}

func TestParseReplyNoScore(t *testing.T) {
	for _, raw := range []string{
		"",
		"Une explication sans note.",
		"Note: pas de chiffre",
		"Score: 80",
	} {
		_, _, err := ParseReply(raw)
		require.ErrorIs(t, err, ErrUnparsableScore, "raw: %q", raw)
	}
}

func TestParseReplyRejectsOutOfRange(t *testing.T) {
	_, _, err := ParseReply("Note: 150\nTrop beau pour être vrai.")
	require.ErrorIs(t, err, ErrUnparsableScore)
}

func TestParseReplyFirstNoteWins(t *testing.T) {
	score, explanation, err := ParseReply("Note: 60\nRésumé.\nNote: 90\n")
	require.NoError(t, err)
	require.Equal(t, 60, score)
	require.Equal(t, "Résumé.<br>Note: 90", explanation)
}

func TestParseReplyBoundaryScores(t *testing.T) {
	score, _, err := ParseReply("Note: 0\nAucun potentiel.")
	require.NoError(t, err)
	require.Equal(t, 0, score)

	score, _, err = ParseReply("Note: 100\nExcellent dossier.")
	require.NoError(t, err)
	require.Equal(t, 100, score)
}

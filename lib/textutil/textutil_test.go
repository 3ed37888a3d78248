package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeExplanation(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    "### Explication\nBon potentiel.",
			expected: "Explication<br>Bon potentiel.",
		},
		{
			input:    "**Points forts**: emplacement\r\nprix correct",
			expected: "Points forts: emplacement<br>prix correct",
		},
		{
			input:    "déjà propre",
			expected: "déjà propre",
		},
		{
			input:    "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, SanitizeExplanation(tc.input))
	}
}

func TestSanitizeExplanationIdempotent(t *testing.T) {
	input := "### Explication\n**Bon** potentiel.\nPrix cohérent."
	once := SanitizeExplanation(input)
	twice := SanitizeExplanation(once)
	require.Equal(t, once, twice)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "boulangeriecentreville", NormalizeName("  Boulangerie Centre Ville\n"))
}

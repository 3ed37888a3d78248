package analyzer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"bizscout-backend/lib/textutil"
)

// ErrUnparsableScore means the model reply carried no usable
// `Note: <int>` line. There is no default score, the request fails.
var ErrUnparsableScore = errors.New("could not parse a score from the model reply")

var noteRegex = regexp.MustCompile(`Note:\s*(\d+)\s*`)

// ParseReply runs the reply state machine over raw model text:
// find the `Note: <int>` line, take the integer as the score, drop the
// matched line, and sanitize the remainder into the explanation.
// Scores outside [0,100] are rejected rather than clamped.
func ParseReply(raw string) (int, string, error) {
	loc := noteRegex.FindStringSubmatchIndex(raw)
	if loc == nil {
		return 0, "", ErrUnparsableScore
	}

	score, err := strconv.Atoi(raw[loc[2]:loc[3]])
	if err != nil {
		return 0, "", ErrUnparsableScore
	}
	if score > 100 {
		return 0, "", ErrUnparsableScore
	}

	// only the matched line is removed, the rest is the explanation
	explanation := raw[:loc[0]] + raw[loc[1]:]
	explanation = strings.Trim(explanation, " \t\n")
	explanation = textutil.SanitizeExplanation(explanation)

	return score, explanation, nil
}

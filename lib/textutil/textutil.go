package textutil

import (
	"regexp"
	"strings"
)

var headingRegex = regexp.MustCompile(`(?m)^###\s`)
var lineBreakRegex = regexp.MustCompile(`\r\n|\r|\n`)

// SanitizeExplanation strips the markdown markers the scoring model tends
// to emit (bold and heading prefixes) and collapses line breaks into <br>
// so the text can be dropped into the presentation layer as-is.
// Sanitizing already-sanitized text is a no-op.
func SanitizeExplanation(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = headingRegex.ReplaceAllString(text, "")
	text = lineBreakRegex.ReplaceAllString(text, "<br>")
	return text
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

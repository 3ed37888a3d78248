package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses a node's rendered text into a single trimmed line
// the way a browser's innerText roughly would. Whitespace runs collapse
// to one space before non-printables are dropped, so a lone newline
// between words still reads as a separator.
func CleanText(node *html.Node) string {
	text := GetText(node)
	text = innerWhitespace.ReplaceAllString(text, " ")
	text = removeNonPrintable(text)
	return strings.Trim(text, " ")
}

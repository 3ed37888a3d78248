// Package extract resolves a site adapter's locators against a parsed
// page and produces a listing record. Extraction never fails: a field
// whose locator finds nothing is simply left empty, and the caller
// decides whether an incomplete record is acceptable.
package extract

import (
	"strings"

	"bizscout-backend/lib/htmlutil"
	"bizscout-backend/lib/listing"
	"bizscout-backend/lib/sites"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func Extract(doc *goquery.Document, adapter sites.Adapter) listing.Record {
	record := listing.Record{Site: adapter.Site}

	record.Title = resolve(doc, adapter.Locators["title"])
	record.Location = resolve(doc, adapter.Locators["location"])
	record.Price = resolve(doc, adapter.Locators["price"])
	record.Revenue = resolve(doc, adapter.Locators["revenue"])
	record.Employees = resolve(doc, adapter.Locators["employees"])
	record.Description = resolve(doc, adapter.Locators["description"])

	return record
}

func resolve(doc *goquery.Document, locator sites.Locator) string {
	if locator.IsZero() {
		return ""
	}
	if locator.IsLabel() {
		return labelValue(doc, locator)
	}

	sel := doc.Find(locator.Selector)
	if len(sel.Nodes) == 0 {
		return ""
	}
	return htmlutil.CleanText(sel.Nodes[0])
}

// labelValue scans the label-bearing elements in document order and
// returns the text of the element immediately following the first label
// containing the configured text. Matching is case-sensitive substring
// containment, first match wins.
func labelValue(doc *goquery.Document, locator sites.Locator) string {
	for _, node := range doc.Find(locator.LabelSelector).Nodes {
		if !containsLabel(node, locator.Label) {
			continue
		}
		value := nextElementSibling(node)
		if value == nil {
			return ""
		}
		return htmlutil.CleanText(value)
	}
	return ""
}

func containsLabel(node *html.Node, label string) bool {
	return strings.Contains(htmlutil.CleanText(node), label)
}

func nextElementSibling(node *html.Node) *html.Node {
	for sibling := node.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type == html.ElementNode {
			return sibling
		}
	}
	return nil
}

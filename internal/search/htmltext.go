package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockSelectors = "p, li, div, tr, h1, h2, h3, h4, h5, h6, ul, ol"

// HTMLToText reduces a provider description that may contain markup to plain text lines
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseWhitespace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelectors).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	return collapseWhitespace(doc.Text())
}

// collapseWhitespace trims each line, squeezes inner runs of spaces and drops blank lines
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}

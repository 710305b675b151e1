package markup

import (
	"bytes"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// pagePolicy keeps the structure the extractors read and drops scripts, styles,
// forms and every attribute except table spans.
var pagePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"body",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "span", "center", "font", "b", "i", "strong", "em", "br", "a",
		"ul", "ol", "li",
		"table", "caption", "thead", "tbody", "tfoot", "tr", "td", "th",
	)
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}()

// Sanitize strips a fetched page down to the markup the extractors read.
// The result is what gets cached and parsed. The page title is carried over
// as escaped text ahead of the sanitized body.
func Sanitize(raw []byte) []byte {
	clean := pagePolicy.SanitizeBytes(raw)
	title := rawTitle(raw)
	if title == "" {
		return clean
	}
	out := make([]byte, 0, len(clean)+len(title)+16)
	out = append(out, "<title>"...)
	out = append(out, html.EscapeString(title)...)
	out = append(out, "</title>"...)
	return append(out, clean...)
}

// rawTitle returns the trimmed text of the first title element in raw.
func rawTitle(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

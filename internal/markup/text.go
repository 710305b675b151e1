package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// writeText appends the text nodes under n. Nested tables are skipped when skipTables
// is set and n is not itself the table being walked.
func writeText(b *strings.Builder, n *html.Node, skipTables bool) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if skipTables && c.Type == html.ElementNode && c.Data == "table" {
			continue
		}
		if c.Type == html.ElementNode && c.Data == "br" {
			b.WriteByte(' ')
			continue
		}
		writeText(b, c, skipTables)
	}
	// Block boundaries must not glue words together.
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th" || n.Data == "div" || n.Data == "p") {
		b.WriteByte(' ')
	}
}

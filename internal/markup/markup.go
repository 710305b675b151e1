// Package markup exposes the DOM query surface the extractors depend on:
// tables with their surrounding context, and paragraph-like text blocks.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/huangsam/almanac/schema"
)

// maxContextRunes caps each context source so a huge neighbor cannot dominate classification.
const maxContextRunes = 200

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Table is a markup table reduced to its cell text and surrounding context.
type Table struct {
	Index   int
	Rows    [][]string
	Caption string

	// Context sources, each possibly empty.
	PrecedingText string
	HeadingText   string
	FirstRowText  string
}

// Text returns the table's own text, rows joined by spaces.
func (t Table) Text() string {
	var b strings.Builder
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cell)
		}
	}
	return b.String()
}

// ContextText joins the caption and the three context sources.
func (t Table) ContextText() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{t.Caption, t.PrecedingText, t.HeadingText, t.FirstRowText} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Page is a parsed season page.
type Page struct {
	doc *goquery.Document
}

// Parse reads HTML markup into a Page.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Page{doc: doc}, nil
}

// ParseBytes is Parse over an in-memory page.
func ParseBytes(b []byte) (*Page, error) {
	return Parse(bytes.NewReader(b))
}

// Title returns the document title.
func (p *Page) Title() string {
	return schema.CollapseSpace(p.doc.Find("title").First().Text())
}

// Tables returns every table in document order. Rows of nested tables belong
// to the nested table only.
func (p *Page) Tables() []Table {
	var tables []Table
	p.doc.Find("table").Each(func(i int, tbl *goquery.Selection) {
		t := Table{
			Index:         i,
			Rows:          ownRows(tbl),
			Caption:       truncate(schema.CollapseSpace(tbl.ChildrenFiltered("caption").First().Text())),
			PrecedingText: precedingText(tbl),
			HeadingText:   headingText(tbl),
		}
		if len(t.Rows) > 0 {
			t.FirstRowText = truncate(strings.Join(t.Rows[0], " "))
		}
		tables = append(tables, t)
	})
	return tables
}

// TextBlocks returns the collapsed text of every paragraph, skipping empty ones.
func (p *Page) TextBlocks() []string {
	var blocks []string
	p.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := schema.CollapseSpace(s.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

func ownRows(tbl *goquery.Selection) [][]string {
	var rows [][]string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(tbl) {
			return
		}
		var cells []string
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, schema.CollapseSpace(cellText(cell)))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

func cellText(cell *goquery.Selection) string {
	var b strings.Builder
	for _, n := range cell.Nodes {
		writeText(&b, n, true)
	}
	return b.String()
}

// precedingText returns the text of the nearest preceding sibling that is not itself a table.
func precedingText(tbl *goquery.Selection) string {
	var text string
	tbl.PrevAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "table" || s.Find("table").Length() > 0 {
			return true
		}
		text = schema.CollapseSpace(s.Text())
		return text == ""
	})
	return truncate(text)
}

// headingText returns the nearest heading before the table or before any of its ancestors.
func headingText(tbl *goquery.Selection) string {
	for sel := tbl; sel.Length() > 0 && goquery.NodeName(sel) != "body"; sel = sel.Parent() {
		if h := sel.PrevAllFiltered(headingSelector).First(); h.Length() > 0 {
			return truncate(schema.CollapseSpace(h.Text()))
		}
	}
	return ""
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) > maxContextRunes {
		return string(runes[:maxContextRunes])
	}
	return s
}

package docket

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ttabscan/internal/textutil"
)

// Link is an anchor inside a cell.
type Link struct {
	Href string
	Text string
}

// Cell is one th/td with its class attribute, collapsed text, and links.
type Cell struct {
	Tag   string
	Class string
	Text  string
	Links []Link
}

// Row is a flat list of cells. The extraction state machine operates on rows,
// never on raw markup.
type Row struct {
	Cells []Cell
}

// Table is an ordered list of rows.
type Table struct {
	Rows []Row
}

// NormalizeTables flattens every table in the document into rows of labeled
// cells. Nested tables appear both inline and as their own entry, matching
// how the source pages interleave layout and content tables.
func NormalizeTables(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var table Table
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row Row
			tr.Find("th, td").Each(func(_ int, sel *goquery.Selection) {
				cell := Cell{
					Tag:   goquery.NodeName(sel),
					Class: sel.AttrOr("class", ""),
					Text:  textutil.CollapseWhitespace(sel.Text()),
				}
				sel.Find("a").Each(func(_ int, a *goquery.Selection) {
					cell.Links = append(cell.Links, Link{
						Href: a.AttrOr("href", ""),
						Text: textutil.CollapseWhitespace(a.Text()),
					})
				})
				row.Cells = append(row.Cells, cell)
			})
			table.Rows = append(table.Rows, row)
		})
		tables = append(tables, table)
	})
	return tables, nil
}

// Text joins the row's cell texts with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, cell := range r.Cells {
		if cell.Text != "" {
			parts = append(parts, cell.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Header returns the first th cell carrying the given class.
func (r Row) Header(class string) (Cell, bool) {
	for _, cell := range r.Cells {
		if cell.Tag == "th" && cell.Class == class {
			return cell, true
		}
	}
	return Cell{}, false
}

// HeaderContaining reports whether any th cell's text contains label.
func (r Row) HeaderContaining(label string) bool {
	for _, cell := range r.Cells {
		if cell.Tag == "th" && strings.Contains(cell.Text, label) {
			return true
		}
	}
	return false
}

// SectionCell returns the first td cell carrying the major-section class.
func (r Row) SectionCell() (Cell, bool) {
	for _, cell := range r.Cells {
		if cell.Tag == "td" && cell.Class == sectionBreakClass {
			return cell, true
		}
	}
	return Cell{}, false
}

// FirstValue returns the first td cell in the row.
func (r Row) FirstValue() (Cell, bool) {
	for _, cell := range r.Cells {
		if cell.Tag == "td" {
			return cell, true
		}
	}
	return Cell{}, false
}

// Values returns every td cell in the row, in order.
func (r Row) Values() []Cell {
	var values []Cell
	for _, cell := range r.Cells {
		if cell.Tag == "td" {
			values = append(values, cell)
		}
	}
	return values
}

// Links returns every link in the row, in cell order.
func (r Row) Links() []Link {
	var links []Link
	for _, cell := range r.Cells {
		links = append(links, cell.Links...)
	}
	return links
}

// Package ranking retrieves and parses the top-airports ranking page. The
// page is a plain HTML table; row order is the priority order downstream
// allocation relies on.
package ranking

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Entry is one row of the ranking: an IATA code plus the page's display name,
// in page order (highest priority first).
type Entry struct {
	Code string
	Name string
}

// Parse extracts ranking entries from the HTML document. Rows whose third
// cell is not a three-letter IATA code (ad rows, section headers) are
// skipped. Duplicate codes keep their first, highest-ranked occurrence.
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse ranking html: %w", err)
	}

	var entries []Entry
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCells(n)
			if len(cells) >= 3 {
				code := strings.ToUpper(strings.TrimSpace(cells[2]))
				if isIATACode(code) && !seen[code] {
					seen[code] = true
					entries = append(entries, Entry{Code: code, Name: cells[1]})
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return entries, nil
}

// rowCells returns the collapsed text of each <td> in a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			cells = append(cells, collapseText(c))
		}
	}
	return cells
}

// collapseText concatenates all text under a node with single spaces, the
// equivalent of get_text(" ", strip=True).
func collapseText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func isIATACode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

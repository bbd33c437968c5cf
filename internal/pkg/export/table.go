// Package export renders report tables as Excel workbooks and PDF documents
package export

import "time"

// Table is a titled grid of text cells
type Table struct {
	Title       string
	Subtitle    string
	Headers     []string
	Rows        [][]string
	Footer      string
	GeneratedAt time.Time
}

// width returns the number of columns, taking the widest row into account
func (t *Table) width() int {
	n := len(t.Headers)
	for _, r := range t.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// columnWidths estimates a width in characters for every column
func (t *Table) columnWidths(min, max int) []int {
	widths := make([]int, t.width())
	measure := func(row []string) {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}
	for i, w := range widths {
		switch {
		case w < min:
			widths[i] = min
		case w > max:
			widths[i] = max
		}
	}
	return widths
}

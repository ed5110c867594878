package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const tableGutter = "  "

// textTable lays out plain-text columns sized to their widest cell.
type textTable struct {
	headers []string
	right   map[int]bool
	rows    [][]string
}

func newTextTable(headers ...string) *textTable {
	return &textTable{headers: headers, right: map[int]bool{}}
}

func (t *textTable) alignRight(cols ...int) *textTable {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

func (t *textTable) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) widths() []int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// lines renders the header, if any, and every row. Trailing blanks are trimmed.
func (t *textTable) lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, t.line(t.headers, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t *textTable) line(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if t.right[i] {
			cells[i] = runewidth.FillLeft(cell, w)
		} else {
			cells[i] = runewidth.FillRight(cell, w)
		}
	}
	return strings.TrimRight(strings.Join(cells, tableGutter), " ")
}

func (t *textTable) writeTo(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

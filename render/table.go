// Package render builds the bordered ASCII tables btcanalyser prints.
//
// Color is applied to border and header characters only, never to cell
// content, so redirected output stays machine-parsable.
package render

import (
	"strings"
	"unicode/utf8"
)

// Table is a bordered ASCII table with a header row, body rows, and an
// optional footer row rendered after a separator line.
type Table struct {
	headers []string
	rows    [][]string
	footer  []string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one body row. Missing trailing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetFooter sets the footer row, separated from the body by a border line.
func (t *Table) SetFooter(cells ...string) {
	t.footer = cells
}

// Render produces the complete table as a single string, styled by p.
// A nil palette renders plain text.
func (t *Table) Render(p *Palette) string {
	widths := t.widths()

	var b strings.Builder
	border := t.borderLine(widths)

	b.WriteString(p.border(border))
	b.WriteByte('\n')
	t.writeRow(&b, p, widths, t.headers, true)
	b.WriteString(p.border(border))
	b.WriteByte('\n')
	for _, row := range t.rows {
		t.writeRow(&b, p, widths, row, false)
	}
	if t.footer != nil {
		b.WriteString(p.border(border))
		b.WriteByte('\n')
		t.writeRow(&b, p, widths, t.footer, false)
	}
	b.WriteString(p.border(border))
	return b.String()
}

// widths returns the display width of each column: the widest cell across
// header, body, and footer.
func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	if t.footer != nil {
		measure(t.footer)
	}
	return widths
}

func (t *Table) borderLine(widths []int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteByte('+')
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteByte('+')
	return b.String()
}

func (t *Table) writeRow(b *strings.Builder, p *Palette, widths []int, row []string, header bool) {
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if header {
			cell = p.header(cell)
		}
		b.WriteString(p.border("|"))
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", w-cellWidth(row, i)+1))
	}
	b.WriteString(p.border("|"))
	b.WriteByte('\n')
}

func cellWidth(row []string, i int) int {
	if i >= len(row) {
		return 0
	}
	return utf8.RuneCountInString(row[i])
}

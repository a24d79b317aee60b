package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const columnGap = 2

// Renderer turns a Table into aligned, fixed-width text, measuring
// display width with go-runewidth so wide (e.g. CJK) account names and
// commodity codes still line up.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes t as an aligned text table.
func (r *Renderer) Render(t *Table) error {
	prec := t.Precision
	if prec == 0 {
		prec = 2
	}
	widths := columnWidths(t, prec)

	if len(t.Header) > 0 {
		if err := r.writeRow(headerRow(t.Header), widths, prec); err != nil {
			return err
		}
	}

	for _, row := range t.Rows {
		if row.IsSeparator() {
			total := totalWidth(widths)
			if _, err := fmt.Fprintln(r.w, strings.Repeat("-", total)); err != nil {
				return err
			}
			continue
		}
		if err := r.writeRow(row, widths, prec); err != nil {
			return err
		}
	}
	return nil
}

func headerRow(header []string) Row {
	cells := make([]Cell, len(header))
	for i, h := range header {
		cells[i] = Text(h, 0, AlignRight)
	}
	return Row{Cells: cells}
}

func (r *Renderer) writeRow(row Row, widths []int, prec int32) error {
	var sb strings.Builder
	for i, cell := range row.Cells {
		width := 0
		if i < len(widths) {
			width = widths[i]
		}
		sb.WriteString(renderCell(cell, width, prec))
		if i < len(row.Cells)-1 {
			sb.WriteString(strings.Repeat(" ", columnGap))
		}
	}
	_, err := fmt.Fprintln(r.w, sb.String())
	return err
}

func renderCell(cell Cell, width int, prec int32) string {
	switch cell.Kind {
	case CellEmpty, CellSeparator:
		return pad("", width, AlignLeft)
	case CellDecimal:
		return pad(cell.Decimal.StringFixed(prec), width, AlignRight)
	default:
		text := strings.Repeat("  ", cell.Indent) + cell.Text
		return pad(text, width, cell.Align)
	}
}

func pad(s string, width int, align Align) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	fill := strings.Repeat(" ", width-w)
	if align == AlignRight {
		return fill + s
	}
	return s + fill
}

func columnWidths(t *Table, prec int32) []int {
	n := t.NumColumns()
	widths := make([]int, n)
	for i, h := range t.Header {
		if i < n {
			widths[i] = max(widths[i], runewidth.StringWidth(h))
		}
	}
	for _, row := range t.Rows {
		if row.IsSeparator() {
			continue
		}
		for i, cell := range row.Cells {
			if i >= n {
				continue
			}
			widths[i] = max(widths[i], cellWidth(cell, prec))
		}
	}
	return widths
}

func cellWidth(cell Cell, prec int32) int {
	switch cell.Kind {
	case CellDecimal:
		return runewidth.StringWidth(cell.Decimal.StringFixed(prec))
	case CellText:
		return runewidth.StringWidth(strings.Repeat("  ", cell.Indent) + cell.Text)
	default:
		return 0
	}
}

func totalWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += columnGap * max(len(widths)-1, 0)
	return total
}

// TerminalWidth reports the current width of os.Stdout, or ok=false if it
// is not a terminal (e.g. output is redirected to a file or pipe).
func TerminalWidth() (width int, ok bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0, false
	}
	return w, true
}

// Package table provides an abstract tabular model, decoupled from any
// particular rendering mechanics, that report construction builds and a
// renderer later turns into characters.
package table

import "github.com/shopspring/decimal"

// Align is the horizontal alignment of a text cell.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// CellKind discriminates the four cell shapes.
type CellKind int

const (
	CellText CellKind = iota
	CellDecimal
	CellEmpty
	CellSeparator
)

// Cell is one abstract table cell. Indent only applies to CellText (used
// for nested account-name rows); Decimal only applies to CellDecimal.
type Cell struct {
	Kind    CellKind
	Text    string
	Indent  int
	Align   Align
	Decimal decimal.Decimal
}

// Text builds a left-or-right aligned, indented text cell.
func Text(s string, indent int, align Align) Cell {
	return Cell{Kind: CellText, Text: s, Indent: indent, Align: align}
}

// Amount builds a right-aligned decimal cell.
func Amount(d decimal.Decimal) Cell {
	return Cell{Kind: CellDecimal, Decimal: d, Align: AlignRight}
}

// Empty builds a blank cell, used for spacer rows and missing values.
func Empty() Cell { return Cell{Kind: CellEmpty} }

// Separator marks an entire row as a horizontal rule.
func Separator() Cell { return Cell{Kind: CellSeparator} }

// Row is one row of cells.
type Row struct {
	Cells []Cell
}

// IsSeparator reports whether row is a separator row (its first cell is a
// CellSeparator; separator rows carry exactly one cell by convention).
func (r Row) IsSeparator() bool {
	return len(r.Cells) == 1 && r.Cells[0].Kind == CellSeparator
}

// Table is an ordered list of rows, all sharing the same column count
// (except separator rows, which span the full width). Precision is the
// number of decimal digits decimal cells render with; zero means the
// default of 2.
type Table struct {
	Header    []string
	Rows      []Row
	Precision int32
}

// AddRow appends a row built from the given cells.
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, Row{Cells: cells})
}

// AddSeparator appends a full-width horizontal rule.
func (t *Table) AddSeparator() {
	t.Rows = append(t.Rows, Row{Cells: []Cell{Separator()}})
}

// NumColumns reports the widest row's cell count, ignoring separators.
func (t *Table) NumColumns() int {
	n := len(t.Header)
	for _, row := range t.Rows {
		if row.IsSeparator() {
			continue
		}
		if len(row.Cells) > n {
			n = len(row.Cells)
		}
	}
	return n
}

package table_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/table"
)

func TestRowIsSeparator(t *testing.T) {
	sep := table.Row{Cells: []table.Cell{table.Separator()}}
	assert.True(t, sep.IsSeparator())

	normal := table.Row{Cells: []table.Cell{table.Text("Assets", 0, table.AlignLeft)}}
	assert.False(t, normal.IsSeparator())
}

func TestAddRowAndSeparator(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "2024-01-31"}}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft), table.Amount(decimal.NewFromInt(100)))
	tbl.AddSeparator()
	tbl.AddRow(table.Empty(), table.Empty())

	assert.Equal(t, 3, len(tbl.Rows))
	assert.True(t, tbl.Rows[1].IsSeparator())
}

func TestNumColumns(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "2024-01-31", "2024-02-29"}}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft))
	tbl.AddSeparator()

	assert.Equal(t, 3, tbl.NumColumns())
}

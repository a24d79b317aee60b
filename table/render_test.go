package table_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/table"
)

func TestRenderAlignsColumns(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "2024-01-31"}}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft), table.Amount(decimal.NewFromInt(100)))
	tbl.AddRow(table.Text("Assets:Bank", 1, table.AlignLeft), table.Amount(decimal.NewFromFloat(100.50)))

	var buf bytes.Buffer
	err := table.NewRenderer(&buf).Render(tbl)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	for _, l := range lines {
		assert.Equal(t, len(lines[0]), len(l))
	}
}

func TestRenderSeparatorRow(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "Total"}}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft), table.Amount(decimal.NewFromInt(1)))
	tbl.AddSeparator()
	tbl.AddRow(table.Text("Total", 0, table.AlignLeft), table.Amount(decimal.NewFromInt(1)))

	var buf bytes.Buffer
	err := table.NewRenderer(&buf).Render(tbl)
	assert.NoError(t, err)

	assert.Contains(t, buf.String(), "----")
}

func TestRenderHonorsPrecision(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "Total"}, Precision: 3}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft), table.Amount(decimal.NewFromFloat(12.3)))

	var buf bytes.Buffer
	err := table.NewRenderer(&buf).Render(tbl)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "12.300")
}

func TestRenderDecimalFixedTwoPlaces(t *testing.T) {
	tbl := &table.Table{Header: []string{"Account", "Total"}}
	tbl.AddRow(table.Text("Assets", 0, table.AlignLeft), table.Amount(decimal.NewFromFloat(12.3)))

	var buf bytes.Buffer
	err := table.NewRenderer(&buf).Render(tbl)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "12.30")
}

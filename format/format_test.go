package format_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/solenne-dev/ledgerfold/format"
	"github.com/solenne-dev/ledgerfold/parser"
)

func formatSource(t *testing.T, src string) string {
	t.Helper()
	tree, err := parser.ParseBytes("t.ledger", []byte(src))
	assert.NoError(t, err)

	var buf strings.Builder
	assert.NoError(t, format.New().Format(tree, &buf))
	return buf.String()
}

func TestFormatAlignsBookingColumns(t *testing.T) {
	// Account (the first, measured column) varies in width across the two
	// bookings; Other and the quantity text stay a constant width so the
	// only thing that can shift the CHF column is the alignment logic
	// itself.
	out := formatSource(t, `2024-01-05 "Groceries"
Assets:Bank Expenses:Food 42.50 CHF
Assets:LongerBankAccount Expenses:Food 10.00 CHF
`)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	// Both booking lines should place their commodity code at the same
	// column since the formatter measures the widest account name.
	idx1 := strings.LastIndex(lines[1], "CHF")
	idx2 := strings.LastIndex(lines[2], "CHF")
	assert.Equal(t, idx1, idx2)
}

func TestFormatInclude(t *testing.T) {
	out := formatSource(t, `include "child.journal"
`)
	assert.Equal(t, "include \"child.journal\"\n", out)
}

func TestFormatPrice(t *testing.T) {
	out := formatSource(t, `2024-03-01 price CHF 1.1 USD
`)
	assert.Equal(t, "2024-03-01 price CHF 1.1 USD\n", out)
}

func TestFormatOpenAndClose(t *testing.T) {
	out := formatSource(t, `2024-01-01 open Assets:Bank
2024-12-31 close Assets:Bank
`)
	assert.Equal(t, "2024-01-01 open Assets:Bank\n\n2024-12-31 close Assets:Bank\n", out)
}

func TestFormatSingleLineBalance(t *testing.T) {
	out := formatSource(t, `2024-03-31 balance Assets:Bank 957.50 CHF
`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 1, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "2024-03-31 balance Assets:Bank 957.50"))
	assert.True(t, strings.HasSuffix(lines[0], "CHF"))
}

func TestFormatMultiLineBalance(t *testing.T) {
	out := formatSource(t, `2024-03-31 balance
Assets:Bank 957.50 CHF
Assets:Savings 100.00 USD
`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "2024-03-31 balance", lines[0])
	// Sub-assertion lines start at column zero so the output re-parses.
	assert.True(t, strings.HasPrefix(lines[1], "Assets:Bank"))
	idx1 := strings.LastIndex(lines[1], "CHF")
	idx2 := strings.LastIndex(lines[2], "USD")
	assert.Equal(t, idx1, idx2)
}

func TestFormatAccrueAddon(t *testing.T) {
	out := formatSource(t, `@accrue monthly 2024-01-01 2024-12-31 Assets:Payables
2024-01-01 "Rent"
Assets:Bank Expenses:Rent 12000 CHF
`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "@accrue monthly 2024-01-01 2024-12-31 Assets:Payables", lines[0])
	assert.Equal(t, `2024-01-01 "Rent"`, lines[1])
}

func TestFormatPerformanceAddon(t *testing.T) {
	out := formatSource(t, `@performance(USD, CHF)
2024-01-01 "Rent"
Assets:Bank Expenses:Rent 12000 CHF
`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "@performance(USD,CHF)", lines[0])
}

func TestFormatWithExplicitWidths(t *testing.T) {
	out := formatSource2(t, format.New(format.WithPrefixWidth(20), format.WithNumWidth(10)), `2024-01-05 "Groceries"
Assets:Bank Expenses:Food 42.50 CHF
`)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Account column padded to the explicit prefix width of 20.
	assert.True(t, strings.HasPrefix(lines[1], "Assets:Bank          Expenses:Food"))
}

// Formatted output must itself be valid journal syntax: the grammar ends a
// transaction at the first line not beginning with an alphanumeric
// character, so bookings are emitted unindented.
func TestFormatOutputReparses(t *testing.T) {
	src := `@accrue monthly 2024-01-01 2024-12-31 Assets:Payables
2024-01-01 "Rent"
Assets:Bank Expenses:Rent 12000 CHF

2024-03-31 balance
Assets:Bank 957.50 CHF
Assets:Savings 100.00 USD
`
	out := formatSource(t, src)
	tree, err := parser.ParseBytes("formatted.ledger", []byte(out))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(tree.Directives))

	// Formatting is idempotent once canonical.
	var buf strings.Builder
	assert.NoError(t, format.New().Format(tree, &buf))
	assert.Equal(t, out, buf.String())
}

func formatSource2(t *testing.T, f *format.Formatter, src string) string {
	t.Helper()
	tree, err := parser.ParseBytes("t.ledger", []byte(src))
	assert.NoError(t, err)

	var buf strings.Builder
	assert.NoError(t, f.Format(tree, &buf))
	return buf.String()
}

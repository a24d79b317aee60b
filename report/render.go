package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/period"
	"github.com/solenne-dev/ledgerfold/table"
)

// Options controls how Render reads amounts out of the tree.
type Options struct {
	// Valued selects normalised Values; when false (no --valuation given)
	// Render falls back to raw Quantities.
	Valued bool
	// Diff reports per-period differences instead of cumulative balances.
	Diff bool
	// Round is the number of decimal digits to display; 2 if zero.
	Round int32
}

// Render builds the abstract balance table: a date header, the
// Assets/Liabilities subtree and its "Total (A+L)" summary, the
// Equity/Income/Expenses subtree (sign-flipped) and its
// "Total (E+I+E)" summary, and a final "Delta = (A+L) + (E+I+E)" row.
func Render(tree *Tree, partition []period.Period, opts Options) *table.Table {
	dates := make([]time.Time, len(partition))
	for i, p := range partition {
		dates[i] = p.End
	}
	round := opts.Round
	if round == 0 {
		round = 2
	}

	t := &table.Table{Header: header(dates), Precision: round}

	alTotal := newPosition()
	for _, segment := range []string{"Assets", "Liabilities"} {
		if node := tree.Child(segment); node != nil {
			renderSubtree(t, node, 0, dates, 1, opts)
			alTotal.Add(node.Sum())
		}
	}
	t.AddRow(table.Empty())
	addSummaryRow(t, "Total (A+L)", alTotal, dates, 1, opts)

	t.AddSeparator()

	eieTotal := newPosition()
	for _, segment := range []string{"Equity", "Income", "Expenses"} {
		if node := tree.Child(segment); node != nil {
			renderSubtree(t, node, 0, dates, -1, opts)
			eieTotal.Add(negate(node.Sum()))
		}
	}
	t.AddRow(table.Empty())
	addSummaryRow(t, "Total (E+I+E)", eieTotal, dates, 1, opts)

	t.AddSeparator()

	// eieTotal holds the sign-flipped sums; flipping them back makes Delta
	// the raw sum of all five account types, zero for a closing ledger.
	delta := newPosition()
	delta.Add(alTotal)
	delta.Add(negate(eieTotal))
	addSummaryRow(t, "Delta = (A+L) + (E+I+E)", delta, dates, 1, opts)

	return t
}

func negate(pos *Position) *Position {
	flipped := newPosition()
	for c, byDate := range pos.Values {
		for d, v := range byDate {
			flipped.addValue(c, d, v.Neg())
		}
	}
	for c, byDate := range pos.Quantities {
		for d, v := range byDate {
			flipped.addQuantity(c, d, v.Neg())
		}
	}
	return flipped
}

func header(dates []time.Time) []string {
	h := make([]string, len(dates)+1)
	h[0] = "Account"
	for i, d := range dates {
		h[i+1] = d.Format("2006-01-02")
	}
	return h
}

// amountsAt returns pos's displayed amount at each date. Aggregation
// buckets each booking into exactly one boundary date, so the buckets are
// per-period flows: with Diff they are shown verbatim, and otherwise they
// are accumulated left to right into running balances.
func amountsAt(pos *Position, dates []time.Time, sign int64, opts Options) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(dates))
	for i, d := range dates {
		var v decimal.Decimal
		if opts.Valued {
			v = pos.ValueAt(d)
		} else {
			v = pos.QuantityAt(d)
		}
		amounts[i] = v.Mul(decimal.NewFromInt(sign))
	}
	if opts.Diff {
		return amounts
	}
	running := decimal.Zero
	for i, a := range amounts {
		running = running.Add(a)
		amounts[i] = running
	}
	return amounts
}

func renderSubtree(t *table.Table, node *Node, indent int, dates []time.Time, sign int64, opts Options) {
	cells := []table.Cell{table.Text(node.Segment, indent, table.AlignLeft)}
	for _, amount := range amountsAt(node.Position, dates, sign, opts) {
		cells = append(cells, table.Amount(amount))
	}
	t.AddRow(cells...)

	for _, child := range node.SortedChildren() {
		renderSubtree(t, child, indent+1, dates, sign, opts)
	}
}

func addSummaryRow(t *table.Table, label string, pos *Position, dates []time.Time, sign int64, opts Options) {
	cells := []table.Cell{table.Text(label, 0, table.AlignLeft)}
	for _, amount := range amountsAt(pos, dates, sign, opts) {
		cells = append(cells, table.Amount(amount))
	}
	t.AddRow(cells...)
}

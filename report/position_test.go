package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/parser"
	"github.com/solenne-dev/ledgerfold/period"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/report"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func analyzeJournal(t *testing.T, source string) (*journal.Journal, *registry.Registry) {
	t.Helper()
	tree, err := parser.ParseBytes("t.ledger", []byte(source))
	assert.NoError(t, err)
	reg := registry.New()
	j, err := journal.Analyze(context.Background(), reg, []*cst.Tree{tree})
	assert.NoError(t, err)
	return j, reg
}

func TestPositionQuantityAt(t *testing.T) {
	j, _ := analyzeJournal(t, `
2024-01-01 "Buy"
Assets:Broker Assets:Bank:Checking 10.00 CHF
`)

	p := period.Period{Start: d(2024, 1, 1), End: d(2024, 1, 31)}
	partition := period.Partition(p, period.Once)
	aligner := period.NewAligner(partition)

	tree := report.Aggregate(context.Background(), j, aligner, nil, nil)
	bank := tree.Child("Assets").Children["Bank"]
	assert.True(t, bank != nil)

	qty := bank.Sum().QuantityAt(d(2024, 1, 31))
	assert.True(t, qty.IsPositive())
}

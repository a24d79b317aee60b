package valuation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/parser"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/source"
	"github.com/solenne-dev/ledgerfold/valuation"
)

func sourcePos() source.Position { return source.Position{} }

func TestPriceGraphNormalizeDirect(t *testing.T) {
	reg := registry.New()
	usd, _ := reg.InternCommodity("USD", sourcePos())
	chf, _ := reg.InternCommodity("CHF", sourcePos())

	g := valuation.NewPriceGraph()
	g.Insert(chf, usd, decimal.NewFromFloat(1.1))

	n := g.Normalize(usd)
	assert.Equal(t, decimal.NewFromInt(1), n[usd])
	assert.True(t, n[chf].Equal(decimal.NewFromFloat(1.1)))
}

func TestPriceGraphNormalizeTransitive(t *testing.T) {
	reg := registry.New()
	usd, _ := reg.InternCommodity("USD", sourcePos())
	chf, _ := reg.InternCommodity("CHF", sourcePos())
	eur, _ := reg.InternCommodity("EUR", sourcePos())

	g := valuation.NewPriceGraph()
	g.Insert(chf, usd, decimal.NewFromFloat(1.1))
	g.Insert(eur, chf, decimal.NewFromFloat(0.95))

	n := g.Normalize(usd)
	// EUR -> CHF -> USD: 0.95 * 1.1
	assert.True(t, n[eur].Equal(decimal.NewFromFloat(0.95).Mul(decimal.NewFromFloat(1.1))))
}

func TestPriceGraphInsertIsBidirectional(t *testing.T) {
	reg := registry.New()
	usd, _ := reg.InternCommodity("USD", sourcePos())
	chf, _ := reg.InternCommodity("CHF", sourcePos())

	g := valuation.NewPriceGraph()
	g.Insert(chf, usd, decimal.NewFromFloat(2))

	n := g.Normalize(chf)
	assert.True(t, n[usd].Equal(decimal.NewFromFloat(1).Div(decimal.NewFromFloat(2))))
}

func TestValuatorFillsBookingValue(t *testing.T) {
	source := `
2024-01-01 price CHF 1.1 USD
2024-01-01 "Buy"
Assets:Broker Assets:Bank:Checking 10.00 CHF
`
	tree, err := parser.ParseBytes("t.ledger", []byte(source))
	assert.NoError(t, err)

	reg := registry.New()
	j, err := journal.Analyze(context.Background(), reg, []*cst.Tree{tree})
	assert.NoError(t, err)

	usd, _ := reg.InternCommodity("USD", sourcePos())
	valuator := valuation.NewValuator(reg, usd)
	err = valuator.Run(context.Background(), j)
	assert.NoError(t, err)

	day, ok := j.Day(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	for _, tx := range day.Transactions {
		for _, b := range tx.Bookings {
			assert.True(t, b.Value != nil)
		}
	}
}

func TestValuatorErrorsOnNoPricePath(t *testing.T) {
	source := `
2024-01-01 "Buy"
Assets:Broker Assets:Bank:Checking 10.00 CHF
`
	tree, err := parser.ParseBytes("t.ledger", []byte(source))
	assert.NoError(t, err)

	reg := registry.New()
	j, err := journal.Analyze(context.Background(), reg, []*cst.Tree{tree})
	assert.NoError(t, err)

	usd, _ := reg.InternCommodity("USD", sourcePos())
	valuator := valuation.NewValuator(reg, usd)
	err = valuator.Run(context.Background(), j)
	assert.Error(t, err)
}

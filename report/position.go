// Package report builds the multi-period account segment tree and renders
// it into the abstract table model.
package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/registry"
)

// Position accumulates, per commodity and per aligned period date, the
// summed quantity and normalised value of the bookings aligned to that
// date: per-period amounts, not running balances. It is the additively
// combinable payload every tree node (and their subtree sums) carries.
type Position struct {
	Quantities map[registry.CommodityID]map[time.Time]decimal.Decimal
	Values     map[registry.CommodityID]map[time.Time]decimal.Decimal
}

func newPosition() *Position {
	return &Position{
		Quantities: make(map[registry.CommodityID]map[time.Time]decimal.Decimal),
		Values:     make(map[registry.CommodityID]map[time.Time]decimal.Decimal),
	}
}

func (p *Position) addQuantity(c registry.CommodityID, date time.Time, qty decimal.Decimal) {
	if p.Quantities[c] == nil {
		p.Quantities[c] = make(map[time.Time]decimal.Decimal)
	}
	p.Quantities[c][date] = p.Quantities[c][date].Add(qty)
}

func (p *Position) addValue(c registry.CommodityID, date time.Time, value decimal.Decimal) {
	if p.Values[c] == nil {
		p.Values[c] = make(map[time.Time]decimal.Decimal)
	}
	p.Values[c][date] = p.Values[c][date].Add(value)
}

// Add merges other into p, commodity and date by commodity and date.
func (p *Position) Add(other *Position) {
	if other == nil {
		return
	}
	for c, byDate := range other.Quantities {
		for d, qty := range byDate {
			p.addQuantity(c, d, qty)
		}
	}
	for c, byDate := range other.Values {
		for d, val := range byDate {
			p.addValue(c, d, val)
		}
	}
}

// ValueAt sums every commodity's value at date. Values are keyed by each
// booking's own commodity but are expressed in the valuation target, so
// the sum is the position's total value in that target.
func (p *Position) ValueAt(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, byDate := range p.Values {
		total = total.Add(byDate[date])
	}
	return total
}

// QuantityAt sums every commodity's raw quantity at date, with no price
// conversion applied. Used when `balance` is run without --valuation:
// meaningful for single-commodity journals, a best-effort display
// otherwise since summing unlike commodities has no true total.
func (p *Position) QuantityAt(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, byDate := range p.Quantities {
		total = total.Add(byDate[date])
	}
	return total
}

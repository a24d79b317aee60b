// Package valuation maintains the per-day commodity price graph, derives
// normalised prices for a chosen target commodity, fills in booking
// values, and synthesises valuation-gain transactions across days.
package valuation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// PriceGraph is a directed weighted multigraph over commodity ids, carried
// forward across days: inserting a→b always also inserts the inverse
// edge b→a, and a later insert for the same ordered pair overwrites the
// earlier one (last write wins).
type PriceGraph struct {
	edges map[registry.CommodityID]map[registry.CommodityID]decimal.Decimal
}

// NewPriceGraph creates an empty price graph.
func NewPriceGraph() *PriceGraph {
	return &PriceGraph{edges: make(map[registry.CommodityID]map[registry.CommodityID]decimal.Decimal)}
}

// Insert records that one unit of commodity is worth rate units of
// target, plus the inverse edge: an edge target→commodity of weight rate,
// so a normalization pass rooted at target values the commodity at rate.
func (g *PriceGraph) Insert(commodity, target registry.CommodityID, rate decimal.Decimal) {
	g.setEdge(target, commodity, rate)
	g.setEdge(commodity, target, decimal.NewFromInt(1).Div(rate))
}

func (g *PriceGraph) setEdge(from, to registry.CommodityID, weight decimal.Decimal) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[registry.CommodityID]decimal.Decimal)
	}
	g.edges[from][to] = weight
}

// Normalize computes, by DFS from target, the mapping of every reachable
// commodity to its value in target: N(target) = 1, and for every edge
// x→y of weight w discovered from a visited x, N(y) = w·N(x) if y is not
// yet visited.
func (g *PriceGraph) Normalize(target registry.CommodityID) map[registry.CommodityID]decimal.Decimal {
	n := map[registry.CommodityID]decimal.Decimal{target: decimal.NewFromInt(1)}

	var dfs func(x registry.CommodityID)
	dfs = func(x registry.CommodityID) {
		for y, w := range g.edges[x] {
			if _, visited := n[y]; visited {
				continue
			}
			n[y] = w.Mul(n[x])
			dfs(y)
		}
	}
	dfs(target)
	return n
}

// Valuator runs the price graph and per-booking valuation pass over a
// Journal, in ascending day order.
type Valuator struct {
	Reg    *registry.Registry
	Target registry.CommodityID
	graph  *PriceGraph
}

// NewValuator creates a Valuator that values every booking in target.
func NewValuator(reg *registry.Registry, target registry.CommodityID) *Valuator {
	return &Valuator{Reg: reg, Target: target, graph: NewPriceGraph()}
}

// Run inserts each day's prices into the graph, recomputes the day's
// normalised price table, and fills in Value for every booking that day.
// It returns *ledgererrors.ModelError (NoPriceFound) on the first booking
// whose commodity has no path to the target.
func (v *Valuator) Run(ctx context.Context, j *journal.Journal) error {
	timer := telemetry.FromContext(ctx).Start("valuation.run")
	defer timer.End()

	for _, day := range j.Days() {
		for _, p := range day.Prices {
			v.graph.Insert(p.Commodity, p.Target, p.Price)
		}
		n := v.graph.Normalize(v.Target)
		day.SetNormalizedPrices(n)

		if err := v.valuate(day.Date, day.Transactions, n); err != nil {
			return err
		}
	}
	return nil
}

func (v *Valuator) valuate(date time.Time, txns []*journal.Transaction, n map[registry.CommodityID]decimal.Decimal) error {
	for _, tx := range txns {
		for _, b := range tx.Bookings {
			rate, ok := n[b.Commodity]
			if !ok {
				return ledgererrors.NewNoPriceFound(
					b.Range.Position(), date.Format("2006-01-02"), v.Reg.CommodityName(b.Commodity), v.Reg.CommodityName(v.Target),
				)
			}
			value := b.Quantity.Mul(rate)
			b.Value = &value
		}
	}
	return nil
}

// Package journal lifts a parsed cst.Tree set into the typed, day-indexed
// Journal the rest of the pipeline operates on: dates and decimals parsed
// from their source text, account/commodity names interned via the
// registry, transactions expanded into paired bookings, and accrual
// directives rewritten into the transactions they describe.
package journal

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/source"
)

// Price is a typed `price` directive: on Date, Commodity is worth Price
// units of Target.
type Price struct {
	Range     source.Range
	Date      time.Time
	Commodity registry.CommodityID
	Price     decimal.Decimal
	Target    registry.CommodityID
}

// Open is a typed `open` directive.
type Open struct {
	Range   source.Range
	Date    time.Time
	Account registry.AccountID
}

// Close is a typed `close` directive.
type Close struct {
	Range   source.Range
	Date    time.Time
	Account registry.AccountID
}

// Assertion is one typed sub-assertion of a `balance` directive.
type Assertion struct {
	Range     source.Range
	Date      time.Time
	Account   registry.AccountID
	Balance   decimal.Decimal
	Commodity registry.CommodityID
}

// Booking is one signed leg of a Transaction. Value is filled in later by
// the valuator; it is nil until then.
type Booking struct {
	Range     source.Range
	Account   registry.AccountID
	Other     registry.AccountID
	Commodity registry.CommodityID
	Quantity  decimal.Decimal
	Value     *decimal.Decimal
}

// Transaction is a dated, described group of paired bookings. Targets
// names the commodities a gain-synthesised transaction adjusts, or the
// commodities named by a `@performance(...)` addon; it is nil for an
// ordinary user transaction.
type Transaction struct {
	Range       source.Range
	Date        time.Time
	Description string
	Bookings    []*Booking
	Targets     []registry.CommodityID
}

// Day holds every entity observed on one calendar date, plus the
// once-per-day computed fields the valuator and gain synthesiser fill in.
// NormalizedPrices and Gains are single-assignment: setting them twice is
// a programmer error and panics, enforcing the serial pipeline contract.
type Day struct {
	Date         time.Time
	Prices       []*Price
	Opens        []*Open
	Closes       []*Close
	Assertions   []*Assertion
	Transactions []*Transaction

	normalizedPrices map[registry.CommodityID]decimal.Decimal
	normalizedSet    bool
	gains            []*Transaction
	gainsSet         bool
}

// SetNormalizedPrices records the day's normalised price table. Panics if
// called twice for the same day.
func (d *Day) SetNormalizedPrices(prices map[registry.CommodityID]decimal.Decimal) {
	if d.normalizedSet {
		panic("journal: normalized prices written twice for day " + d.Date.Format("2006-01-02"))
	}
	d.normalizedPrices = prices
	d.normalizedSet = true
}

// NormalizedPrices returns the day's normalised price table, or nil if the
// valuator has not run yet.
func (d *Day) NormalizedPrices() map[registry.CommodityID]decimal.Decimal { return d.normalizedPrices }

// SetGains records the day's synthesised gain transactions. Panics if
// called twice for the same day.
func (d *Day) SetGains(gains []*Transaction) {
	if d.gainsSet {
		panic("journal: gains written twice for day " + d.Date.Format("2006-01-02"))
	}
	d.gains = gains
	d.gainsSet = true
}

// Gains returns the day's synthesised gain transactions, or nil if the
// gain synthesiser has not run yet.
func (d *Day) Gains() []*Transaction { return d.gains }

// Journal is the date-ordered collection of Days produced by analysis,
// plus the Registry every interned id in it refers to.
type Journal struct {
	Registry *registry.Registry

	days   map[time.Time]*Day
	sorted []*Day
}

func newJournal(reg *registry.Registry) *Journal {
	return &Journal{Registry: reg, days: make(map[time.Time]*Day)}
}

// day returns the Day for date, creating it on first reference.
func (j *Journal) day(date time.Time) *Day {
	if d, ok := j.days[date]; ok {
		return d
	}
	d := &Day{Date: date}
	j.days[date] = d
	j.sorted = nil // invalidate cached ordering
	return d
}

// Days returns every Day in ascending date order. The slice is cached
// after the first call following any new day being referenced.
func (j *Journal) Days() []*Day {
	if j.sorted != nil {
		return j.sorted
	}
	dates := make([]time.Time, 0, len(j.days))
	for d := range j.days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, k int) bool { return dates[i].Before(dates[k]) })
	j.sorted = make([]*Day, len(dates))
	for i, dt := range dates {
		j.sorted[i] = j.days[dt]
	}
	return j.sorted
}

// Day looks up an existing day without creating one; ok is false if no
// entity was ever recorded for date.
func (j *Journal) Day(date time.Time) (*Day, bool) {
	d, ok := j.days[date]
	return d, ok
}

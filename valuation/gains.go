package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// valuationAccountName is the well-known account gain transactions post
// against.
const valuationAccountName = "Income:Valuation"

type positionKey struct {
	account   registry.AccountID
	commodity registry.CommodityID
}

// GainSynthesizer tracks a running quantity position per (account,
// commodity) over asset and liability accounts and, each day, emits a
// valuation-adjustment transaction for every position whose normalised
// value moved since the previous day.
type GainSynthesizer struct {
	reg              *registry.Registry
	valuationAccount registry.AccountID

	positions map[positionKey]decimal.Decimal
	order     []positionKey // first-seen order, for deterministic emission
}

// NewGainSynthesizer creates a GainSynthesizer against reg, interning the
// well-known Income:Valuation account.
func NewGainSynthesizer(reg *registry.Registry) *GainSynthesizer {
	return &GainSynthesizer{
		reg:              reg,
		valuationAccount: reg.MustInternAccount(valuationAccountName),
		positions:        make(map[positionKey]decimal.Decimal),
	}
}

// Run walks the journal's days in ascending order, folding each day's
// asset/liability bookings into the running position table and emitting
// that day's gain transactions before moving to the next day. It must run
// after a Valuator has populated NormalizedPrices for every day.
func (gs *GainSynthesizer) Run(ctx context.Context, j *journal.Journal) error {
	timer := telemetry.FromContext(ctx).Start("valuation.gains")
	defer timer.End()

	var prev map[registry.CommodityID]decimal.Decimal
	for _, day := range j.Days() {
		cur := day.NormalizedPrices()

		var gains []*journal.Transaction
		for _, key := range gs.order {
			qty := gs.positions[key]
			if qty.IsZero() {
				continue
			}
			gain := valueAt(qty, key.commodity, cur).Sub(valueAt(qty, key.commodity, prev))
			if gain.IsZero() {
				continue
			}
			gains = append(gains, gs.buildGainTransaction(day.Date, key, gain))
		}
		day.SetGains(gains)

		for _, tx := range day.Transactions {
			for _, b := range tx.Bookings {
				if !isAssetOrLiability(gs.reg, b.Account) {
					continue
				}
				gs.add(positionKey{account: b.Account, commodity: b.Commodity}, b.Quantity)
			}
		}

		prev = cur
	}
	return nil
}

func (gs *GainSynthesizer) add(key positionKey, delta decimal.Decimal) {
	if _, ok := gs.positions[key]; !ok {
		gs.order = append(gs.order, key)
	}
	gs.positions[key] = gs.positions[key].Add(delta)
}

func valueAt(qty decimal.Decimal, commodity registry.CommodityID, prices map[registry.CommodityID]decimal.Decimal) decimal.Decimal {
	if prices == nil {
		return decimal.Zero
	}
	rate, ok := prices[commodity]
	if !ok {
		return decimal.Zero
	}
	return qty.Mul(rate)
}

// buildGainTransaction builds the paired-booking transaction for a single
// position's day-over-day gain: a quantity-0 leg against the account
// itself carrying +gain, and its negated counterpart on Income:Valuation.
func (gs *GainSynthesizer) buildGainTransaction(date time.Time, key positionKey, gain decimal.Decimal) *journal.Transaction {
	commodityName := gs.reg.CommodityName(key.commodity)
	accountName := gs.reg.AccountName(key.account)
	description := fmt.Sprintf("Adjust value of %s in account %s", commodityName, accountName)

	return &journal.Transaction{
		Date:        date,
		Description: description,
		Targets:     []registry.CommodityID{key.commodity},
		Bookings: []*journal.Booking{
			{Account: gs.valuationAccount, Other: key.account, Commodity: key.commodity, Quantity: decimal.Zero, Value: ptr(gain.Neg())},
			{Account: key.account, Other: gs.valuationAccount, Commodity: key.commodity, Quantity: decimal.Zero, Value: ptr(gain)},
		},
	}
}

func isAssetOrLiability(reg *registry.Registry, id registry.AccountID) bool {
	switch reg.AccountTypeOf(id) {
	case registry.Assets, registry.Liabilities:
		return true
	default:
		return false
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

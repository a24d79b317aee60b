package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/period"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/source"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// accrualScale is the decimal precision used to distribute an accrued
// quantity over a partition: dividing "100" three
// ways at this scale yields 33.333/33.333/33.333 with a 0.001 remainder
// folded into the first period, matching the worked example exactly.
const accrualScale = 3

// Analyze lifts every directive across trees, in order, into a Journal.
// Analysis is order-independent across trees because all day merging is
// keyed by date; within a single transaction's bookings, source
// order is preserved.
func Analyze(ctx context.Context, reg *registry.Registry, trees []*cst.Tree) (*Journal, error) {
	timer := telemetry.FromContext(ctx).Start("journal.analyze")
	defer timer.End()

	j := newJournal(reg)
	for _, tree := range trees {
		for _, d := range tree.Directives {
			if err := analyzeDirective(j, reg, d); err != nil {
				return nil, err
			}
		}
	}
	return j, nil
}

func analyzeDirective(j *Journal, reg *registry.Registry, d cst.Directive) error {
	switch n := d.(type) {
	case *cst.Include:
		return nil // resolved entirely by the loader; nothing to analyze
	case *cst.Price:
		return analyzePrice(j, reg, n)
	case *cst.Open:
		return analyzeOpen(j, reg, n)
	case *cst.Close:
		return analyzeClose(j, reg, n)
	case *cst.Balance:
		return analyzeBalance(j, reg, n)
	case *cst.Transaction:
		return analyzeTransaction(j, reg, n)
	}
	return fmt.Errorf("journal: unhandled directive %T", d)
}

func buildDate(d *cst.Date) (time.Time, error) {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || int(t.Month()) != d.Month || t.Day() != d.Day {
		return time.Time{}, &ledgererrors.ModelError{
			Pos: d.Range().Position(), Kind: ledgererrors.ModelErrorInvalidDate,
			Message: fmt.Sprintf("invalid calendar date %04d-%02d-%02d", d.Year, d.Month, d.Day),
		}
	}
	return t, nil
}

func buildDecimal(n *cst.Decimal) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(n.Text)
	if err != nil {
		return decimal.Decimal{}, &ledgererrors.ModelError{
			Pos: n.Range().Position(), Kind: ledgererrors.ModelErrorInvalidDecimal,
			Message: fmt.Sprintf("invalid decimal %q: %v", n.Text, err),
		}
	}
	return v, nil
}

func analyzePrice(j *Journal, reg *registry.Registry, n *cst.Price) error {
	date, err := buildDate(n.Date)
	if err != nil {
		return err
	}
	commodity, err := reg.InternCommodity(n.Commodity.Name, n.Commodity.Range().Position())
	if err != nil {
		return err
	}
	price, err := buildDecimal(n.Price)
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return &ledgererrors.ModelError{
			Pos: n.Price.Range().Position(), Kind: ledgererrors.ModelErrorInvalidDecimal,
			Message: fmt.Sprintf("price must be > 0, got %s", price),
		}
	}
	target, err := reg.InternCommodity(n.Target.Name, n.Target.Range().Position())
	if err != nil {
		return err
	}

	day := j.day(date)
	day.Prices = append(day.Prices, &Price{
		Range: n.Range(), Date: date, Commodity: commodity, Price: price, Target: target,
	})
	return nil
}

func analyzeOpen(j *Journal, reg *registry.Registry, n *cst.Open) error {
	date, err := buildDate(n.Date)
	if err != nil {
		return err
	}
	account, err := reg.InternAccount(n.Account.Name, n.Account.Range().Position())
	if err != nil {
		return err
	}
	day := j.day(date)
	day.Opens = append(day.Opens, &Open{Range: n.Range(), Date: date, Account: account})
	return nil
}

func analyzeClose(j *Journal, reg *registry.Registry, n *cst.Close) error {
	date, err := buildDate(n.Date)
	if err != nil {
		return err
	}
	account, err := reg.InternAccount(n.Account.Name, n.Account.Range().Position())
	if err != nil {
		return err
	}
	day := j.day(date)
	day.Closes = append(day.Closes, &Close{Range: n.Range(), Date: date, Account: account})
	return nil
}

func analyzeBalance(j *Journal, reg *registry.Registry, n *cst.Balance) error {
	date, err := buildDate(n.Date)
	if err != nil {
		return err
	}
	day := j.day(date)
	for _, sub := range n.Assertions {
		account, err := reg.InternAccount(sub.Account.Name, sub.Account.Range().Position())
		if err != nil {
			return err
		}
		balance, err := buildDecimal(sub.Balance)
		if err != nil {
			return err
		}
		commodity, err := reg.InternCommodity(sub.Commodity.Name, sub.Commodity.Range().Position())
		if err != nil {
			return err
		}
		day.Assertions = append(day.Assertions, &Assertion{
			Range: sub.Range(), Date: date, Account: account, Balance: balance, Commodity: commodity,
		})
	}
	return nil
}

// leg is one half of a source booking line before it is paired into two
// opposite-signed typed Bookings (or, for an accrual directive, rewritten
// into its own transaction).
type leg struct {
	account   registry.AccountID
	other     registry.AccountID
	commodity registry.CommodityID
	quantity  decimal.Decimal
	rng       source.Range
}

func (l leg) toBooking() *Booking {
	return &Booking{Range: l.rng, Account: l.account, Other: l.other, Commodity: l.commodity, Quantity: l.quantity}
}

func analyzeTransaction(j *Journal, reg *registry.Registry, n *cst.Transaction) error {
	date, err := buildDate(n.Date)
	if err != nil {
		return err
	}

	var legs [][2]leg
	for _, b := range n.Bookings {
		l1, l2, err := buildLegs(reg, b)
		if err != nil {
			return err
		}
		legs = append(legs, [2]leg{l1, l2})
	}

	switch addon := n.Addon.(type) {
	case *cst.Accrue:
		return expandAccrual(j, reg, n, date, legs, addon)
	case *cst.PerformanceTargets:
		targets := make([]registry.CommodityID, 0, len(addon.Commodities))
		for _, c := range addon.Commodities {
			id, err := reg.InternCommodity(c.Name, c.Range().Position())
			if err != nil {
				return err
			}
			targets = append(targets, id)
		}
		emitTransaction(j, date, n.Description.Value, legs, targets, n.Range())
	default:
		emitTransaction(j, date, n.Description.Value, legs, nil, n.Range())
	}
	return nil
}

func buildLegs(reg *registry.Registry, b *cst.Booking) (leg, leg, error) {
	account, err := reg.InternAccount(b.Account.Name, b.Account.Range().Position())
	if err != nil {
		return leg{}, leg{}, err
	}
	other, err := reg.InternAccount(b.Other.Name, b.Other.Range().Position())
	if err != nil {
		return leg{}, leg{}, err
	}
	commodity, err := reg.InternCommodity(b.Commodity.Name, b.Commodity.Range().Position())
	if err != nil {
		return leg{}, leg{}, err
	}
	quantity, err := buildDecimal(b.Quantity)
	if err != nil {
		return leg{}, leg{}, err
	}

	// The account listed first is the source of the transfer (credit,
	// negated); the second is the destination (debit, positive).
	l1 := leg{account: account, other: other, commodity: commodity, quantity: quantity.Neg(), rng: b.Range()}
	l2 := leg{account: other, other: account, commodity: commodity, quantity: quantity, rng: b.Range()}
	return l1, l2, nil
}

func emitTransaction(j *Journal, date time.Time, description string, legs [][2]leg, targets []registry.CommodityID, rng source.Range) {
	tx := &Transaction{Range: rng, Date: date, Description: description, Targets: targets}
	for _, pair := range legs {
		tx.Bookings = append(tx.Bookings, pair[0].toBooking(), pair[1].toBooking())
	}
	day := j.day(date)
	day.Transactions = append(day.Transactions, tx)
}

// expandAccrual rewrites a transaction carrying an @accrue addon into the
// N sub-transactions it describes: income/expense legs are distributed over the
// partition of [start, end] with the remainder folded into the first
// period; asset/liability legs become a single transaction at the
// original date against the accrual account.
func expandAccrual(j *Journal, reg *registry.Registry, n *cst.Transaction, date time.Time, legs [][2]leg, accrue *cst.Accrue) error {
	start, err := buildDate(accrue.Start)
	if err != nil {
		return err
	}
	end, err := buildDate(accrue.End)
	if err != nil {
		return err
	}
	interval, ok := period.ParseInterval(accrue.Interval.Text)
	if !ok {
		return &ledgererrors.ModelError{
			Pos: accrue.Interval.Range().Position(), Kind: ledgererrors.ModelErrorInvalidDate,
			Message: fmt.Sprintf("unknown accrual interval %q", accrue.Interval.Text),
		}
	}
	accrueAccount, err := reg.InternAccount(accrue.Account.Name, accrue.Account.Range().Position())
	if err != nil {
		return err
	}

	parts := period.Partition(period.Period{Start: start, End: end}, interval)

	for _, pair := range legs {
		for _, l := range pair {
			switch reg.AccountTypeOf(l.account) {
			case registry.Income, registry.Expenses:
				emitDistributedAccrual(j, n.Description.Value, l, accrueAccount, parts, n.Range())
			default: // Assets, Liabilities, Equity
				emitSingleAccrual(j, date, n.Description.Value, l, accrueAccount, n.Range())
			}
		}
	}
	return nil
}

func emitSingleAccrual(j *Journal, date time.Time, description string, l leg, accrueAccount registry.AccountID, rng source.Range) {
	tx := &Transaction{Range: rng, Date: date, Description: description}
	tx.Bookings = []*Booking{
		{Range: rng, Account: l.account, Other: accrueAccount, Commodity: l.commodity, Quantity: l.quantity},
		{Range: rng, Account: accrueAccount, Other: l.account, Commodity: l.commodity, Quantity: l.quantity.Neg()},
	}
	day := j.day(date)
	day.Transactions = append(day.Transactions, tx)
}

func emitDistributedAccrual(j *Journal, description string, l leg, accrueAccount registry.AccountID, parts []period.Period, rng source.Range) {
	shares := distributeExact(l.quantity, len(parts), accrualScale)
	for i, p := range parts {
		desc := fmt.Sprintf("%s (accrual %d/%d)", description, i+1, len(parts))
		tx := &Transaction{Range: rng, Date: p.End, Description: desc}
		tx.Bookings = []*Booking{
			{Range: rng, Account: l.account, Other: accrueAccount, Commodity: l.commodity, Quantity: shares[i]},
			{Range: rng, Account: accrueAccount, Other: l.account, Commodity: l.commodity, Quantity: shares[i].Neg()},
		}
		day := j.day(p.End)
		day.Transactions = append(day.Transactions, tx)
	}
}

// distributeExact splits total into n shares at the given decimal scale so
// that they sum to total exactly, folding the rounding remainder into the
// first share.
func distributeExact(total decimal.Decimal, n int, scale int32) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	share := total.Div(decimal.NewFromInt(int64(n))).RoundBank(scale)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = share
	}
	sum := share.Mul(decimal.NewFromInt(int64(n)))
	remainder := total.Sub(sum)
	shares[0] = shares[0].Add(remainder)
	return shares
}

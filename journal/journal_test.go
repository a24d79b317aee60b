package journal_test

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
)

func analyze(t *testing.T, text string) *journal.Journal {
	t.Helper()
	tree, err := parser.ParseBytes("t.ledger", []byte(text))
	assert.NoError(t, err)
	reg := registry.New()
	j, err := journal.Analyze(context.Background(), reg, []*cst.Tree{tree})
	assert.NoError(t, err)
	return j
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeTransactionPairsOppositeSignedBookings(t *testing.T) {
	j := analyze(t, `2024-01-05 "Groceries"
Expenses:Food Assets:Bank:Checking 42.50 USD
`)

	day, ok := j.Day(date(2024, 1, 5))
	assert.True(t, ok)
	assert.Equal(t, 1, len(day.Transactions))

	tx := day.Transactions[0]
	assert.Equal(t, 2, len(tx.Bookings))

	assert.Equal(t, j.Registry.AccountName(tx.Bookings[0].Account), "Expenses:Food")
	assert.True(t, tx.Bookings[0].Quantity.Equal(decimal.NewFromFloat(-42.50)))

	assert.Equal(t, j.Registry.AccountName(tx.Bookings[1].Account), "Assets:Bank:Checking")
	assert.True(t, tx.Bookings[1].Quantity.Equal(decimal.NewFromFloat(42.50)))
}

func TestAnalyzeOpenAndClose(t *testing.T) {
	j := analyze(t, `2024-01-01 open Assets:Bank:Checking
2024-06-30 close Assets:Bank:Checking
`)

	openDay, ok := j.Day(date(2024, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, 1, len(openDay.Opens))

	closeDay, ok := j.Day(date(2024, 6, 30))
	assert.True(t, ok)
	assert.Equal(t, 1, len(closeDay.Closes))
}

func TestAnalyzeBalanceAssertion(t *testing.T) {
	j := analyze(t, `2024-01-01 balance Assets:Bank:Checking 100.00 USD`)

	day, ok := j.Day(date(2024, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, 1, len(day.Assertions))
	assert.True(t, day.Assertions[0].Balance.Equal(decimal.NewFromFloat(100.00)))
}

func TestAnalyzeRejectsInvalidCalendarDate(t *testing.T) {
	tree, err := parser.ParseBytes("t.ledger", []byte(`2024-02-30 open Assets:Bank`))
	assert.NoError(t, err) // parses fine as three digit groups; fails at analysis

	reg := registry.New()
	_, err = journal.Analyze(context.Background(), reg, []*cst.Tree{tree})
	assert.Error(t, err)
}

func TestDaysReturnsAscendingOrder(t *testing.T) {
	j := analyze(t, `2024-03-01 open Assets:Bank
2024-01-01 open Assets:Other
2024-02-01 open Assets:Third
`)

	days := j.Days()
	assert.Equal(t, 3, len(days))
	assert.True(t, days[0].Date.Before(days[1].Date))
	assert.True(t, days[1].Date.Before(days[2].Date))
}

func TestNormalizedPricesSingleAssignment(t *testing.T) {
	j := analyze(t, `2024-01-01 open Assets:Bank`)
	day, _ := j.Day(date(2024, 1, 1))

	day.SetNormalizedPrices(map[registry.CommodityID]decimal.Decimal{})
	assert.Equal(t, 0, len(day.NormalizedPrices()))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on double SetNormalizedPrices")
		}
	}()
	day.SetNormalizedPrices(map[registry.CommodityID]decimal.Decimal{})
}

func TestAnalyzePerformanceAddonSetsTargets(t *testing.T) {
	j := analyze(t, `@performance(USD)
2024-01-01 "Buy stock"
Assets:Broker Assets:Bank:Checking 100.00 USD
`)

	day, ok := j.Day(date(2024, 1, 1))
	assert.True(t, ok)
	tx := day.Transactions[0]
	assert.Equal(t, 1, len(tx.Targets))
	assert.Equal(t, "USD", j.Registry.CommodityName(tx.Targets[0]))
}

func TestAccrualDistributesAcrossPartitionWithRemainderInFirst(t *testing.T) {
	j := analyze(t, `@accrue monthly 2024-01-01 2024-03-31 Liabilities:Accrued:Rent
2024-01-01 "Q1 rent"
Assets:Bank Expenses:Rent 100.00 USD
`)

	var shareByDate = map[time.Time]decimal.Decimal{}
	for _, day := range j.Days() {
		for _, tx := range day.Transactions {
			for _, b := range tx.Bookings {
				if j.Registry.AccountTypeOf(b.Account) == registry.Expenses {
					shareByDate[day.Date] = b.Quantity
				}
			}
		}
	}

	// 100 over three months: 33.334 (remainder in the first), then 33.333
	// twice, dated to each period's end.
	assert.Equal(t, 3, len(shareByDate))
	assert.Equal(t, "33.334", shareByDate[date(2024, 1, 31)].String())
	assert.Equal(t, "33.333", shareByDate[date(2024, 2, 29)].String())
	assert.Equal(t, "33.333", shareByDate[date(2024, 3, 31)].String())

	sum := decimal.Zero
	for _, v := range shareByDate {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(decimal.NewFromFloat(100.00)))
}

func TestAccrualBooksAssetLegAtOriginalDate(t *testing.T) {
	j := analyze(t, `@accrue monthly 2024-01-01 2024-03-31 Liabilities:Accrued:Rent
2024-01-01 "Q1 rent paid upfront"
Assets:Bank:Checking Liabilities:Accrued:Rent 300.00 USD
`)

	day, ok := j.Day(date(2024, 1, 1))
	assert.True(t, ok)

	found := false
	for _, tx := range day.Transactions {
		for _, b := range tx.Bookings {
			if j.Registry.AccountTypeOf(b.Account) == registry.Assets {
				found = true
			}
		}
	}
	assert.True(t, found)
}

package report_test

import (
	"regexp"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/report"
	"github.com/solenne-dev/ledgerfold/source"
)

func TestShortenerTruncatesToDepth(t *testing.T) {
	reg := registry.New()
	account, err := reg.InternAccount("Assets:Bank:Checking", source.Position{})
	assert.NoError(t, err)

	s := report.NewShortener([]report.ShortenRule{
		{Pattern: regexp.MustCompile("^Assets:"), Depth: 2},
	})

	shortened, keep := s.Shorten(reg, account)
	assert.True(t, keep)
	assert.Equal(t, "Assets:Bank", reg.AccountName(shortened))
}

func TestShortenerDropRule(t *testing.T) {
	reg := registry.New()
	account, err := reg.InternAccount("Equity:OpeningBalances", source.Position{})
	assert.NoError(t, err)

	s := report.NewShortener([]report.ShortenRule{
		{Pattern: regexp.MustCompile("^Equity:"), Drop: true},
	})

	_, keep := s.Shorten(reg, account)
	assert.False(t, keep)
}

func TestShortenerFirstMatchWins(t *testing.T) {
	reg := registry.New()
	account, err := reg.InternAccount("Assets:Bank:Checking", source.Position{})
	assert.NoError(t, err)

	s := report.NewShortener([]report.ShortenRule{
		{Pattern: regexp.MustCompile("^Assets:Bank:Checking$"), Depth: 1},
		{Pattern: regexp.MustCompile("^Assets:"), Depth: 2},
	})

	shortened, keep := s.Shorten(reg, account)
	assert.True(t, keep)
	assert.Equal(t, "Assets", reg.AccountName(shortened))
}

func TestShortenerNoMatchKeepsOriginal(t *testing.T) {
	reg := registry.New()
	account, err := reg.InternAccount("Income:Salary", source.Position{})
	assert.NoError(t, err)

	s := report.NewShortener([]report.ShortenRule{
		{Pattern: regexp.MustCompile("^Assets:"), Depth: 1},
	})

	shortened, keep := s.Shorten(reg, account)
	assert.True(t, keep)
	assert.Equal(t, account, shortened)
}

func TestShortenerCachesResult(t *testing.T) {
	reg := registry.New()
	account, err := reg.InternAccount("Assets:Bank:Checking", source.Position{})
	assert.NoError(t, err)

	s := report.NewShortener([]report.ShortenRule{
		{Pattern: regexp.MustCompile("^Assets:"), Depth: 2},
	})

	first, _ := s.Shorten(reg, account)
	second, _ := s.Shorten(reg, account)
	assert.Equal(t, first, second)
}

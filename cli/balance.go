package cli

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/loader"
	"github.com/solenne-dev/ledgerfold/period"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/report"
	"github.com/solenne-dev/ledgerfold/source"
	"github.com/solenne-dev/ledgerfold/table"
	"github.com/solenne-dev/ledgerfold/valuation"
)

// BalanceCmd renders a multi-period balance report, optionally valuating
// the journal against a target commodity first and synthesising valuation
// gains alongside it.
type BalanceCmd struct {
	File string `arg:"" help:"Journal filename."`

	Valuation       string   `help:"Valuate in this commodity before reporting; omit to report raw quantities."`
	Mapping         []string `help:"Shorten accounts: \"DEPTH,REGEX\" or \"DEPTH\" (matches everything); DEPTH \"None\" drops matching accounts." placeholder:"DEPTH,REGEX"`
	ShowCommodities []string `help:"Only include commodities matching this regex; repeatable." placeholder:"REGEX"`
	Last            int      `help:"Keep only the last N periods."`
	Diff            bool     `help:"Show period-over-period differences instead of cumulative balances."`

	FromDate string `name:"from-date" help:"Start date (YYYY-MM-DD); defaults to the journal's earliest day."`
	ToDate   string `name:"to-date" help:"End date (YYYY-MM-DD); defaults to the journal's latest day."`

	Days     bool `xor:"interval" help:"Partition into daily periods."`
	Weeks    bool `xor:"interval" help:"Partition into weekly periods."`
	Months   bool `xor:"interval" help:"Partition into monthly periods."`
	Quarters bool `xor:"interval" help:"Partition into quarterly periods."`
	Years    bool `xor:"interval" help:"Partition into yearly periods."`

	Round int `help:"Decimal places to display." default:"2"`
}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report_ := withTelemetry(context.Background(), globals, ctx, fmt.Sprintf("balance %s", cmd.File))
	defer report_()

	result, err := loader.Load(runCtx, cmd.File)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
		printError(ctx.Stderr, "parse error")
		os.Exit(1)
		return nil
	}

	reg := registry.New()
	j, err := journal.Analyze(runCtx, reg, result.Trees)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
		printError(ctx.Stderr, "analysis error")
		os.Exit(1)
		return nil
	}

	valued := cmd.Valuation != ""
	if valued {
		target, err := reg.InternCommodity(cmd.Valuation, source.Position{})
		if err != nil {
			fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
			printError(ctx.Stderr, "invalid valuation commodity")
			os.Exit(1)
			return nil
		}
		valuator := valuation.NewValuator(reg, target)
		if err := valuator.Run(runCtx, j); err != nil {
			fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
			printError(ctx.Stderr, "valuation error")
			os.Exit(1)
			return nil
		}
		gains := valuation.NewGainSynthesizer(reg)
		if err := gains.Run(runCtx, j); err != nil {
			fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
			printError(ctx.Stderr, "gain synthesis error")
			os.Exit(1)
			return nil
		}
	}

	from, to, err := cmd.dateRange(j)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		os.Exit(1)
		return nil
	}

	partition := period.Partition(period.Period{Start: from, End: to}, cmd.interval())
	if cmd.Last > 0 && cmd.Last < len(partition) {
		partition = partition[len(partition)-cmd.Last:]
	}
	aligner := period.NewAligner(partition)

	rules, err := cmd.parseMapping()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		os.Exit(1)
		return nil
	}
	var shortener *report.Shortener
	if len(rules) > 0 {
		shortener = report.NewShortener(rules)
	}

	filter, err := cmd.commodityFilter()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		os.Exit(1)
		return nil
	}

	tree := report.Aggregate(runCtx, j, aligner, shortener, filter)
	tbl := report.Render(tree, partition, report.Options{
		Valued: valued,
		Diff:   cmd.Diff,
		Round:  int32(cmd.Round),
	})

	return table.NewRenderer(ctx.Stdout).Render(tbl)
}

func (cmd *BalanceCmd) interval() period.Interval {
	switch {
	case cmd.Days:
		return period.Daily
	case cmd.Weeks:
		return period.Weekly
	case cmd.Months:
		return period.Monthly
	case cmd.Quarters:
		return period.Quarterly
	case cmd.Years:
		return period.Yearly
	default:
		return period.Once
	}
}

// dateRange resolves the reporting window: explicit --from-date/--to-date
// flags win, otherwise it falls back to the journal's earliest/latest day.
func (cmd *BalanceCmd) dateRange(j *journal.Journal) (time.Time, time.Time, error) {
	days := j.Days()
	var from, to time.Time
	if len(days) > 0 {
		from = days[0].Date
		to = days[len(days)-1].Date
	}

	if cmd.FromDate != "" {
		d, err := time.Parse("2006-01-02", cmd.FromDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from-date %q: %w", cmd.FromDate, err)
		}
		from = d
	}
	if cmd.ToDate != "" {
		d, err := time.Parse("2006-01-02", cmd.ToDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to-date %q: %w", cmd.ToDate, err)
		}
		to = d
	}
	return from, to, nil
}

// parseMapping turns --mapping values of the form "DEPTH,REGEX" or bare
// "DEPTH" (regex defaults to match-everything) into ShortenRules, in the
// order given on the command line. A DEPTH of "None" drops matching
// accounts entirely.
func (cmd *BalanceCmd) parseMapping() ([]report.ShortenRule, error) {
	var rules []report.ShortenRule
	for _, m := range cmd.Mapping {
		depthPart, patternPart, hasPattern := strings.Cut(m, ",")
		pattern := ".*"
		if hasPattern {
			pattern = patternPart
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid --mapping regex %q: %w", pattern, err)
		}
		if depthPart == "None" {
			rules = append(rules, report.ShortenRule{Pattern: re, Drop: true})
			continue
		}
		depth, err := strconv.Atoi(depthPart)
		if err != nil {
			return nil, fmt.Errorf("invalid --mapping depth %q: %w", depthPart, err)
		}
		rules = append(rules, report.ShortenRule{Pattern: re, Depth: depth})
	}
	return rules, nil
}

// commodityFilter builds a report.CommodityFilter from --show-commodities,
// or nil if the flag was not given.
func (cmd *BalanceCmd) commodityFilter() (report.CommodityFilter, error) {
	if len(cmd.ShowCommodities) == 0 {
		return nil, nil
	}
	patterns := make([]*regexp.Regexp, len(cmd.ShowCommodities))
	for i, p := range cmd.ShowCommodities {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid --show-commodities regex %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(name string) bool {
		for _, re := range patterns {
			if re.MatchString(name) {
				return true
			}
		}
		return false
	}, nil
}

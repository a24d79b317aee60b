package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/solenne-dev/ledgerfold/loader"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// ParseCmd loads and parses a journal file (and everything it includes),
// reporting the first syntax error encountered.
type ParseCmd struct {
	File string `arg:"" help:"Journal filename."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(context.Background(), globals, ctx, fmt.Sprintf("parse %s", cmd.File))
	defer report()

	result, err := loader.Load(runCtx, cmd.File)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
		printError(ctx.Stderr, "parse error")
		os.Exit(1)
		return nil
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Parsed %d file(s), %d directive(s) total", len(result.Trees), totalDirectives(result)))
	return nil
}

func totalDirectives(result *loader.Result) int {
	n := 0
	for _, tree := range result.Trees {
		n += len(tree.Directives)
	}
	return n
}

func withTelemetry(ctx context.Context, globals *Globals, kctx *kong.Context, label string) (context.Context, func()) {
	if !globals.Telemetry {
		return ctx, func() {}
	}
	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	timer := collector.Start(label)
	return ctx, func() {
		timer.End()
		fmt.Fprintln(kctx.Stderr)
		collector.Report(kctx.Stderr)
	}
}

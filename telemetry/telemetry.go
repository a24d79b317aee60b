// Package telemetry provides hierarchical timing collection for the
// pipeline stages (file loading with parsing, analysis, valuation, gain
// synthesis, aggregation). A Collector is threaded through
// a context.Context so instrumentation can be added to any stage without
// changing its signature, and is a no-op unless the CLI's --telemetry flag
// installs a real one.
package telemetry

import (
	"context"
	"io"
)

type contextKey int

const collectorKey contextKey = iota

// Collector collects nested timing data for one run of the pipeline.
// Implementations must be safe for concurrent Start calls, though the
// pipeline itself runs single-threaded end to end.
type Collector interface {
	// Start begins timing an operation and returns a Timer to end it.
	Start(name string) Timer
	// Report writes the collected timing tree to w.
	Report(w io.Writer)
}

// Timer tracks one timed operation and may have nested child timers. A
// Timer and its children are only ever used from the single goroutine that
// created them.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector attaches collector to ctx.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the active Collector, or a no-op collector if none
// was installed.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noOpCollector{}
}

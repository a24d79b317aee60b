package telemetry

import "io"

// noOpCollector discards everything; installed whenever --telemetry is off
// so instrumentation calls cost a single interface dispatch.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer { return noOpTimer{} }
func (noOpCollector) Report(w io.Writer)      {}

type noOpTimer struct{}

func (noOpTimer) End()                    {}
func (noOpTimer) Child(name string) Timer { return noOpTimer{} }

// Package tracing provides hooks that record what happens during a simulation.
package tracing

import (
	"log"

	"github.com/sarchlab/vmsim/sim"
)

// A LogTracer writes one line per page fault, naming the frame the page was
// placed in, and one line per eviction.
type LogTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a LogTracer that writes through logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{logger: logger}
}

// Func logs faults and evictions.
func (t *LogTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosPageFault:
		access := ctx.Item.(sim.Access)
		t.logger.Printf("fault, %d, %s, %s, %d\n",
			access.Position,
			access.Record.Page,
			access.Record.Mode,
			access.Outcome.Frame)
	case sim.HookPosEviction:
		access := ctx.Item.(sim.Access)
		t.logger.Printf("evict, %d, %s, %t\n",
			access.Position,
			access.Outcome.Victim,
			access.Outcome.Writeback)
	case sim.HookPosRunEnd:
		report := ctx.Item.(sim.Report)
		t.logger.Printf("end, %d, %d, %d\n",
			report.Accesses,
			report.Faults,
			report.Writes)
	}
}

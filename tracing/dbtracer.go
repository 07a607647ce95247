package tracing

import (
	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/sim"
)

// Table names used by the DBTracer.
const (
	EvictionTable = "vmsim_evictions"
	RunTable      = "vmsim_runs"
)

type evictionEntry struct {
	RunID     string
	Position  int
	Victim    uint64
	Incoming  uint64
	Frame     int
	Writeback bool
}

type runEntry struct {
	RunID     string
	Algorithm string
	Frames    int
	Refresh   uint64
	Accesses  uint64
	Faults    uint64
	Writes    uint64
}

// DBTracer is a hook that stores every eviction and the final statistics of
// a run into a DataRecorder.
type DBTracer struct {
	backend datarecording.DataRecorder
	runID   string
	refresh uint64
}

// NewDBTracer creates a new DBTracer. The refresh interval is only stored
// with the run summary.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	runID string,
	refresh uint64,
) *DBTracer {
	dataRecorder.CreateTable(EvictionTable, evictionEntry{})
	dataRecorder.CreateTable(RunTable, runEntry{})

	return &DBTracer{
		backend: dataRecorder,
		runID:   runID,
		refresh: refresh,
	}
}

// RunID returns the identifier written with every row.
func (t *DBTracer) RunID() string {
	return t.runID
}

// Func records evictions and the run summary.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosEviction:
		access := ctx.Item.(sim.Access)
		t.backend.InsertData(EvictionTable, evictionEntry{
			RunID:     t.runID,
			Position:  access.Position,
			Victim:    uint64(access.Outcome.Victim),
			Incoming:  uint64(access.Record.Page),
			Frame:     access.Outcome.Frame,
			Writeback: access.Outcome.Writeback,
		})
	case sim.HookPosRunEnd:
		report := ctx.Item.(sim.Report)
		t.backend.InsertData(RunTable, runEntry{
			RunID:     t.runID,
			Algorithm: report.Algorithm,
			Frames:    report.NumFrames,
			Refresh:   t.refresh,
			Accesses:  report.Accesses,
			Faults:    report.Faults,
			Writes:    report.Writes,
		})
		t.backend.Flush()
	}
}

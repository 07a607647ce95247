// Package sim drives a trace through a replacement policy and collects the
// statistics of the run.
package sim

import (
	"errors"
	"io"

	"github.com/sarchlab/vmsim/policy"
	"github.com/sarchlab/vmsim/trace"
)

// An Access is the item passed to hooks for every simulated access.
type Access struct {
	Position int
	Record   trace.Record
	Outcome  policy.Outcome
}

// A Simulator replays records from a source against a policy. It is not safe
// for concurrent use.
type Simulator struct {
	*HookableBase

	policy policy.Policy
	source trace.Source
}

// Run consumes the source until it is exhausted. A source error aborts the run
// and no report is produced.
func (s *Simulator) Run() (Report, error) {
	report := Report{
		Algorithm: s.policy.Algorithm().DisplayName(),
		NumFrames: s.policy.NumFrames(),
	}

	for pos := 0; ; pos++ {
		rec, err := s.source.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Report{}, err
		}

		out := s.policy.Access(rec)

		report.Accesses++

		if out.Fault {
			report.Faults++
		}

		if out.Writeback {
			report.Writes++
		}

		if s.NumHooks() > 0 {
			s.invokeAccessHooks(Access{
				Position: pos,
				Record:   rec,
				Outcome:  out,
			})
		}
	}

	s.InvokeHook(HookCtx{
		Domain: s,
		Pos:    HookPosRunEnd,
		Item:   report,
	})

	return report, nil
}

func (s *Simulator) invokeAccessHooks(access Access) {
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAccess, Item: access})

	if access.Outcome.Fault {
		s.InvokeHook(HookCtx{Domain: s, Pos: HookPosPageFault, Item: access})
	}

	if access.Outcome.Evicted {
		s.InvokeHook(HookCtx{Domain: s, Pos: HookPosEviction, Item: access})
	}
}

// Package policy implements the page replacement policies.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/vmsim/trace"
)

// ErrUnknownAlgorithm is returned for algorithm names that no policy
// implements.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm names a replacement policy.
type Algorithm string

// The supported algorithms.
const (
	FIFO  Algorithm = "fifo"
	OPT   Algorithm = "opt"
	Aging Algorithm = "aging"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{FIFO, OPT, Aging}

// ParseAlgorithm converts a case-insensitive name into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(name))
	for _, known := range Algorithms {
		if a == known {
			return a, nil
		}
	}

	return "", fmt.Errorf("%w: %s. Valid options are: fifo, opt, aging",
		ErrUnknownAlgorithm, name)
}

// DisplayName returns the name used in reports.
func (a Algorithm) DisplayName() string {
	return strings.ToUpper(string(a))
}

// Outcome describes what one access did to the resident set.
type Outcome struct {
	Fault     bool
	Evicted   bool
	Victim    trace.PageKey
	Writeback bool

	// Frame is the frame the faulting page was placed in.
	Frame int
}

// A Policy replays accesses against a fixed number of frames.
type Policy interface {
	// Algorithm returns which algorithm the policy implements.
	Algorithm() Algorithm

	// NumFrames returns the number of physical frames.
	NumFrames() int

	// Resident returns the number of pages currently in memory.
	Resident() int

	// Access applies one record and reports whether it faulted and what was
	// evicted.
	Access(rec trace.Record) Outcome
}

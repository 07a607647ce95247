package policy

import (
	"errors"

	"github.com/sarchlab/vmsim/trace"
)

// Builder can build replacement policies.
type Builder struct {
	numFrames       int
	refreshInterval uint64
	records         []trace.Record
}

// MakeBuilder creates a Builder with a single frame.
func MakeBuilder() Builder {
	return Builder{
		numFrames: 1,
	}
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithRefreshInterval sets the number of cycles between two aging shifts.
func (b Builder) WithRefreshInterval(cycles uint64) Builder {
	b.refreshInterval = cycles
	return b
}

// WithTrace provides the complete trace that OPT looks ahead into.
func (b Builder) WithTrace(records []trace.Record) Builder {
	b.records = records
	return b
}

// Build creates a policy that implements the given algorithm.
func (b Builder) Build(a Algorithm) (Policy, error) {
	if b.numFrames <= 0 {
		return nil, errors.New("number of frames must be positive")
	}

	switch a {
	case FIFO:
		return NewFIFO(b.numFrames), nil
	case OPT:
		return NewOPT(b.numFrames, b.records), nil
	case Aging:
		if b.refreshInterval == 0 {
			return nil, errors.New("refresh interval must be positive")
		}

		return NewAging(b.numFrames, b.refreshInterval), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

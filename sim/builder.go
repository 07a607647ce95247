package sim

import (
	"github.com/sarchlab/vmsim/policy"
	"github.com/sarchlab/vmsim/trace"
)

// Builder can build simulators.
type Builder struct {
	policy policy.Policy
	source trace.Source
	hooks  []Hook
}

// MakeBuilder creates a new Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(p policy.Policy) Builder {
	b.policy = p
	return b
}

// WithSource sets where the records come from.
func (b Builder) WithSource(src trace.Source) Builder {
	b.source = src
	return b
}

// WithHook registers a hook on the simulator.
func (b Builder) WithHook(h Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], h)
	return b
}

// Build creates the simulator.
func (b Builder) Build() *Simulator {
	if b.policy == nil {
		panic("policy is not set")
	}

	if b.source == nil {
		panic("source is not set")
	}

	s := &Simulator{
		HookableBase: NewHookableBase(),
		policy:       b.policy,
		source:       b.source,
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s
}

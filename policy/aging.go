package policy

import (
	"github.com/sarchlab/vmsim/paging"
	"github.com/sarchlab/vmsim/trace"
)

const (
	counterBits = 8
	counterMSB  = uint8(1) << (counterBits - 1)
)

// A PTE is the page table entry the aging policy keeps for a resident page.
type PTE struct {
	Page       trace.PageKey
	Counter    uint8
	Referenced bool
	Dirty      bool
}

func newPTE(rec trace.Record) *PTE {
	return &PTE{
		Page:    rec.Page,
		Counter: counterMSB,
		Dirty:   rec.IsStore(),
	}
}

// age shifts the counter right and moves the referenced bit into the MSB.
func (e *PTE) age() {
	c := e.Counter >> 1
	if e.Referenced {
		c |= counterMSB
	}

	e.Counter = c
	e.Referenced = false
}

// evictsBefore orders PTEs for eviction: lower counter first, then clean
// before dirty, then lower page.
func (e *PTE) evictsBefore(other *PTE) bool {
	if e.Counter != other.Counter {
		return e.Counter < other.Counter
	}

	if e.Dirty != other.Dirty {
		return !e.Dirty
	}

	return e.Page < other.Page
}

// AgingPolicy approximates LRU with per-page 8-bit aging counters that are
// shifted every refresh interval.
type AgingPolicy struct {
	frames *paging.FrameTable
	ptes   map[trace.PageKey]*PTE

	refreshInterval uint64
	clock           uint64
}

// NewAging creates an aging policy that shifts counters every refreshInterval
// cycles.
func NewAging(numFrames int, refreshInterval uint64) *AgingPolicy {
	if refreshInterval == 0 {
		panic("refresh interval must be positive")
	}

	return &AgingPolicy{
		frames:          paging.NewFrameTable(numFrames),
		ptes:            make(map[trace.PageKey]*PTE, numFrames),
		refreshInterval: refreshInterval,
	}
}

// Algorithm returns Aging.
func (p *AgingPolicy) Algorithm() Algorithm { return Aging }

// NumFrames returns the number of frames.
func (p *AgingPolicy) NumFrames() int { return p.frames.Capacity() }

// Resident returns the number of resident pages.
func (p *AgingPolicy) Resident() int { return p.frames.Len() }

// Access advances the clock by the record's cycles plus the access itself and
// then applies the record.
func (p *AgingPolicy) Access(rec trace.Record) Outcome {
	p.tick(rec.Cycles)
	p.tick(1)

	if pte, ok := p.ptes[rec.Page]; ok {
		pte.Referenced = true
		if rec.IsStore() {
			pte.Dirty = true
		}

		return Outcome{}
	}

	out := Outcome{Fault: true}

	if p.frames.IsFull() {
		victim := p.findVictim()

		out.Evicted = true
		out.Victim = victim.Page
		out.Writeback = victim.Dirty

		p.frames.Remove(victim.Page)
		delete(p.ptes, victim.Page)
	}

	pte := newPTE(rec)
	out.Frame = p.frames.Insert(pte.Page)
	p.ptes[pte.Page] = pte

	return out
}

// PTE returns a copy of the entry of a resident page.
func (p *AgingPolicy) PTE(page trace.PageKey) (PTE, bool) {
	pte, ok := p.ptes[page]
	if !ok {
		return PTE{}, false
	}

	return *pte, true
}

// Clock returns the cycles elapsed since the last shift.
func (p *AgingPolicy) Clock() uint64 {
	return p.clock
}

// tick advances the clock without ever summing it with cycles, so deltas up
// to the full uint64 range cannot wrap.
func (p *AgingPolicy) tick(cycles uint64) {
	shifts := cycles / p.refreshInterval
	rest := cycles % p.refreshInterval

	untilShift := p.refreshInterval - p.clock
	if rest >= untilShift {
		shifts++
		p.clock = rest - untilShift
	} else {
		p.clock += rest
	}

	if shifts > 0 {
		p.shift(shifts)
	}
}

// shift applies n shift events to every resident PTE. After counterBits+1
// shifts every counter is zero, so longer runs are cut short.
func (p *AgingPolicy) shift(n uint64) {
	if n > counterBits+1 {
		n = counterBits + 1
	}

	for _, pte := range p.ptes {
		for i := uint64(0); i < n; i++ {
			pte.age()
		}
	}
}

func (p *AgingPolicy) findVictim() *PTE {
	var victim *PTE

	for _, pte := range p.ptes {
		if victim == nil || pte.evictsBefore(victim) {
			victim = pte
		}
	}

	return victim
}

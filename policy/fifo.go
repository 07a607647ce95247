package policy

import (
	"github.com/sarchlab/vmsim/paging"
	"github.com/sarchlab/vmsim/trace"
)

// FIFOPolicy evicts the page that has been resident the longest. Hits do not
// change the eviction order.
type FIFOPolicy struct {
	frames *paging.FrameTable
	dirty  *paging.DirtySet

	queue []trace.PageKey
	head  int
	size  int
}

// NewFIFO creates a FIFO policy with numFrames frames.
func NewFIFO(numFrames int) *FIFOPolicy {
	return &FIFOPolicy{
		frames: paging.NewFrameTable(numFrames),
		dirty:  paging.NewDirtySet(),
		queue:  make([]trace.PageKey, numFrames),
	}
}

// Algorithm returns FIFO.
func (p *FIFOPolicy) Algorithm() Algorithm { return FIFO }

// NumFrames returns the number of frames.
func (p *FIFOPolicy) NumFrames() int { return p.frames.Capacity() }

// Resident returns the number of resident pages.
func (p *FIFOPolicy) Resident() int { return p.frames.Len() }

// Access applies one record.
func (p *FIFOPolicy) Access(rec trace.Record) Outcome {
	if rec.IsStore() {
		p.dirty.Mark(rec.Page)
	}

	if p.frames.Contains(rec.Page) {
		return Outcome{}
	}

	out := Outcome{Fault: true}

	if p.frames.IsFull() {
		victim := p.pop()

		out.Evicted = true
		out.Victim = victim

		if p.dirty.IsDirty(victim) {
			out.Writeback = true
			p.dirty.Clear(victim)
		}

		p.frames.Remove(victim)
	}

	out.Frame = p.frames.Insert(rec.Page)
	p.push(rec.Page)

	return out
}

// Queue returns the resident pages from oldest to newest.
func (p *FIFOPolicy) Queue() []trace.PageKey {
	pages := make([]trace.PageKey, 0, p.size)
	for i := 0; i < p.size; i++ {
		pages = append(pages, p.queue[(p.head+i)%len(p.queue)])
	}

	return pages
}

// IsDirty returns true if the page holds unwritten modifications.
func (p *FIFOPolicy) IsDirty(page trace.PageKey) bool {
	return p.dirty.IsDirty(page)
}

func (p *FIFOPolicy) push(page trace.PageKey) {
	p.queue[(p.head+p.size)%len(p.queue)] = page
	p.size++
}

func (p *FIFOPolicy) pop() trace.PageKey {
	page := p.queue[p.head]
	p.head = (p.head + 1) % len(p.queue)
	p.size--

	return page
}

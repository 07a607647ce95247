package policy

import (
	"fmt"

	"github.com/sarchlab/vmsim/paging"
	"github.com/sarchlab/vmsim/trace"
)

// OPTPolicy evicts the page whose next use lies farthest in the future. It
// needs the whole trace up front.
type OPTPolicy struct {
	frames *paging.FrameTable
	dirty  *paging.DirtySet

	// lookahead holds, per page, the positions of its remaining accesses in
	// ascending order. Pages without future accesses have no entry.
	lookahead map[trace.PageKey][]int
	pos       int
}

// NewOPT creates an OPT policy for the given trace.
func NewOPT(numFrames int, records []trace.Record) *OPTPolicy {
	p := &OPTPolicy{
		frames:    paging.NewFrameTable(numFrames),
		dirty:     paging.NewDirtySet(),
		lookahead: make(map[trace.PageKey][]int),
	}

	for i, rec := range records {
		p.lookahead[rec.Page] = append(p.lookahead[rec.Page], i)
	}

	return p
}

// Algorithm returns OPT.
func (p *OPTPolicy) Algorithm() Algorithm { return OPT }

// NumFrames returns the number of frames.
func (p *OPTPolicy) NumFrames() int { return p.frames.Capacity() }

// Resident returns the number of resident pages.
func (p *OPTPolicy) Resident() int { return p.frames.Len() }

// Access applies the record at the current trace position. Records must be
// given in the same order as the trace passed to NewOPT.
func (p *OPTPolicy) Access(rec trace.Record) Outcome {
	p.consume(rec.Page)

	if rec.IsStore() {
		p.dirty.Mark(rec.Page)
	}

	if p.frames.Contains(rec.Page) {
		return Outcome{}
	}

	out := Outcome{Fault: true}

	if p.frames.IsFull() {
		victim := p.findVictim()

		out.Evicted = true
		out.Victim = victim

		if p.dirty.IsDirty(victim) {
			out.Writeback = true
			p.dirty.Clear(victim)
		}

		p.frames.Remove(victim)
	}

	out.Frame = p.frames.Insert(rec.Page)

	return out
}

// NextUse returns the trace position at which the page is accessed next.
func (p *OPTPolicy) NextUse(page trace.PageKey) (int, bool) {
	uses, ok := p.lookahead[page]
	if !ok {
		return 0, false
	}

	return uses[0], true
}

// IsDirty returns true if the page holds unwritten modifications.
func (p *OPTPolicy) IsDirty(page trace.PageKey) bool {
	return p.dirty.IsDirty(page)
}

func (p *OPTPolicy) consume(page trace.PageKey) {
	uses := p.lookahead[page]
	if len(uses) == 0 || uses[0] != p.pos {
		panic(fmt.Sprintf(
			"access to page %s at position %d is not in the lookahead trace",
			page, p.pos))
	}

	if len(uses) == 1 {
		delete(p.lookahead, page)
	} else {
		p.lookahead[page] = uses[1:]
	}

	p.pos++
}

// findVictim prefers a page that is never used again. Otherwise, it picks the
// page used farthest in the future. Ties go to the lowest page.
func (p *OPTPolicy) findVictim() trace.PageKey {
	var victim trace.PageKey

	farthest := -1

	for _, page := range p.frames.Keys() {
		next, ok := p.NextUse(page)
		if !ok {
			return page
		}

		if next > farthest {
			farthest = next
			victim = page
		}
	}

	return victim
}

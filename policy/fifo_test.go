package policy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vmsim/trace"
)

var _ = Describe("FIFO", func() {
	const (
		a trace.PageKey = iota + 1
		b
		c
		d
		e
	)

	var p *FIFOPolicy

	BeforeEach(func() {
		p = NewFIFO(3)
	})

	It("should fault on every access of A B C D A B E", func() {
		r := run(p, loads(a, b, c, d, a, b, e))

		Expect(r.faults).To(Equal(7))
		Expect(r.writes).To(Equal(0))
		Expect(r.victims).To(Equal([]trace.PageKey{a, b, c, d}))
		Expect(p.Queue()).To(Equal([]trace.PageKey{a, b, e}))
	})

	It("should fill free frames without evicting", func() {
		r := run(p, loads(a, b, c))

		Expect(r.faults).To(Equal(3))
		Expect(r.victims).To(BeEmpty())
		Expect(p.Queue()).To(Equal([]trace.PageKey{a, b, c}))
	})

	It("should not promote a page on reuse", func() {
		r := run(p, loads(a, b, c, a, a, d))

		Expect(r.faults).To(Equal(4))
		Expect(r.outcomes[3]).To(Equal(Outcome{}))
		Expect(r.victims).To(Equal([]trace.PageKey{a}))
		Expect(p.Queue()).To(Equal([]trace.PageKey{b, c, d}))
	})

	It("should write back a dirty victim once", func() {
		records := []trace.Record{
			load(a), store(a), load(b), load(c),
			load(d),
			load(a), load(e), load(b),
			load(c),
		}

		r := run(p, records)

		Expect(r.outcomes[4]).To(Equal(Outcome{
			Fault: true, Evicted: true, Victim: a, Writeback: true, Frame: 0,
		}))
		Expect(p.IsDirty(a)).To(BeFalse())
		Expect(r.writes).To(Equal(1))
	})

	It("should mark a page dirty when it faults in on a store", func() {
		run(p, []trace.Record{store(a), load(b), load(c)})
		Expect(p.IsDirty(a)).To(BeTrue())

		out := p.Access(load(d))
		Expect(out.Victim).To(Equal(a))
		Expect(out.Writeback).To(BeTrue())
	})

	It("should work with a single frame", func() {
		p = NewFIFO(1)

		r := run(p, []trace.Record{load(a), store(a), load(b), load(b), load(a)})

		Expect(r.faults).To(Equal(3))
		Expect(r.writes).To(Equal(1))
		Expect(r.victims).To(Equal([]trace.PageKey{a, b}))
	})
})

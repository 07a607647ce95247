package policy

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vmsim/trace"
)

func randomTrace(rng *rand.Rand, length, numPages int) []trace.Record {
	records := make([]trace.Record, 0, length)

	for i := 0; i < length; i++ {
		rec := trace.Record{
			Page:      trace.PageKey(rng.Intn(numPages)),
			Cycles:    uint64(rng.Intn(20)),
			HasCycles: true,
		}

		if rng.Intn(3) == 0 {
			rec.Mode = trace.Store
		}

		records = append(records, rec)
	}

	return records
}

// checkWritebacks verifies that a victim is written back iff it was stored to
// since it was last faulted in.
func checkWritebacks(p Policy, records []trace.Record) {
	stored := make(map[trace.PageKey]bool)

	for _, rec := range records {
		out := p.Access(rec)

		if out.Evicted {
			Expect(out.Writeback).To(Equal(stored[out.Victim]))
			delete(stored, out.Victim)
		}

		if out.Fault {
			stored[rec.Page] = rec.IsStore()
		} else if rec.IsStore() {
			stored[rec.Page] = true
		}
	}
}

var _ = Describe("Replacement properties", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	build := func(a Algorithm, frames int, refresh uint64, records []trace.Record) Policy {
		p, err := MakeBuilder().
			WithNumFrames(frames).
			WithRefreshInterval(refresh).
			WithTrace(records).
			Build(a)
		Expect(err).ToNot(HaveOccurred())

		return p
	}

	It("should never fault more with OPT than with FIFO or aging", func() {
		for i := 0; i < 200; i++ {
			records := randomTrace(rng, 50+rng.Intn(150), 2+rng.Intn(10))
			frames := 1 + rng.Intn(6)
			refresh := uint64(1 + rng.Intn(40))

			opt := run(build(OPT, frames, refresh, records), records)
			fifo := run(build(FIFO, frames, refresh, records), records)
			aging := run(build(Aging, frames, refresh, records), records)

			Expect(opt.faults).To(BeNumerically("<=", fifo.faults))
			Expect(opt.faults).To(BeNumerically("<=", aging.faults))
		}
	})

	It("should keep counters within bounds", func() {
		for i := 0; i < 100; i++ {
			records := randomTrace(rng, 100, 12)
			frames := 1 + rng.Intn(8)

			for _, a := range Algorithms {
				r := run(build(a, frames, 7, records), records)

				Expect(r.faults).To(BeNumerically(">=", 0))
				Expect(r.faults).To(BeNumerically("<=", len(records)))
				Expect(r.writes).To(BeNumerically("<=", r.faults))
			}
		}
	})

	It("should only write back pages stored to while resident", func() {
		for i := 0; i < 100; i++ {
			records := randomTrace(rng, 120, 8)
			frames := 1 + rng.Intn(5)

			for _, a := range Algorithms {
				checkWritebacks(build(a, frames, 5, records), records)
			}
		}
	})

	It("should be deterministic", func() {
		records := randomTrace(rng, 500, 16)

		for _, a := range Algorithms {
			first := run(build(a, 4, 9, records), records)
			second := run(build(a, 4, 9, records), records)

			Expect(second).To(Equal(first))
		}
	})

	It("should evict FIFO pages in arrival order", func() {
		records := randomTrace(rng, 300, 10)
		p := NewFIFO(4)

		var arrivals []trace.PageKey
		for _, rec := range records {
			out := p.Access(rec)
			if out.Evicted {
				Expect(out.Victim).To(Equal(arrivals[0]))
				arrivals = arrivals[1:]
			}

			if out.Fault {
				arrivals = append(arrivals, rec.Page)
			}
		}

		Expect(p.Queue()).To(Equal(arrivals))
	})
})

package sim

import (
	"fmt"
	"io"
)

// A Report summarizes one run.
type Report struct {
	Algorithm string
	NumFrames int
	Accesses  uint64
	Faults    uint64
	Writes    uint64
}

// WriteTo prints the report in its five-line form.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

func (r Report) String() string {
	return fmt.Sprintf(
		"Algorithm: %s\n"+
			"Number of frames: %d\n"+
			"Total memory accesses: %d\n"+
			"Total page faults: %d\n"+
			"Total writes to disk: %d\n",
		r.Algorithm,
		r.NumFrames,
		r.Accesses,
		r.Faults,
		r.Writes,
	)
}

// Package trace decodes memory access traces into page-level access records.
package trace

import "fmt"

// PageOffsetBits is the number of low-order address bits that select a byte
// within a page. Pages are 4 KiB.
const PageOffsetBits = 12

// A PageKey identifies a virtual page. It is the address with the offset bits
// shifted out, so two addresses map to the same key iff they share a page.
type PageKey uint64

// PageKeyOf returns the page that holds the given address.
func PageKeyOf(address uint64) PageKey {
	return PageKey(address >> PageOffsetBits)
}

func (k PageKey) String() string {
	return fmt.Sprintf("0x%05x", uint64(k))
}

// AccessMode tells whether an access reads or writes its page.
type AccessMode int

// The access modes.
const (
	Load AccessMode = iota
	Store
)

func (m AccessMode) String() string {
	switch m {
	case Load:
		return "load"
	case Store:
		return "store"
	default:
		return fmt.Sprintf("AccessMode(%d)", int(m))
	}
}

// A Record is one decoded trace line.
type Record struct {
	Page PageKey
	Mode AccessMode

	// Cycles is the number of cycles elapsed since the previous record. It is
	// only meaningful when HasCycles is set.
	Cycles    uint64
	HasCycles bool
}

// IsStore returns true if the access writes the page.
func (r Record) IsStore() bool {
	return r.Mode == Store
}

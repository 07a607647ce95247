package paging

import "github.com/sarchlab/vmsim/trace"

// A DirtySet holds the pages that have been written since they were faulted
// in. A page stays dirty until it is cleared on eviction.
type DirtySet struct {
	pages map[trace.PageKey]struct{}
}

// NewDirtySet creates an empty DirtySet.
func NewDirtySet() *DirtySet {
	return &DirtySet{pages: make(map[trace.PageKey]struct{})}
}

// Mark records that the page has been written. Marking a dirty page again has
// no effect.
func (s *DirtySet) Mark(page trace.PageKey) {
	s.pages[page] = struct{}{}
}

// IsDirty returns true if the page has unwritten modifications.
func (s *DirtySet) IsDirty(page trace.PageKey) bool {
	_, ok := s.pages[page]
	return ok
}

// Clear forgets the page.
func (s *DirtySet) Clear(page trace.PageKey) {
	delete(s.pages, page)
}

// Len returns the number of dirty pages.
func (s *DirtySet) Len() int {
	return len(s.pages)
}

// Package paging provides the resident-page bookkeeping shared by the
// replacement policies.
package paging

import (
	"fmt"
	"sort"

	"github.com/sarchlab/vmsim/trace"
)

// A FrameTable records which frame each resident page occupies.
type FrameTable struct {
	capacity int
	index    map[trace.PageKey]int
	freeList []int
}

// NewFrameTable creates a table with numFrames empty frames.
func NewFrameTable(numFrames int) *FrameTable {
	if numFrames <= 0 {
		panic(fmt.Sprintf("invalid number of frames %d", numFrames))
	}

	t := &FrameTable{
		capacity: numFrames,
		index:    make(map[trace.PageKey]int, numFrames),
		freeList: make([]int, 0, numFrames),
	}

	for i := numFrames - 1; i >= 0; i-- {
		t.freeList = append(t.freeList, i)
	}

	return t
}

// Capacity returns the number of frames.
func (t *FrameTable) Capacity() int {
	return t.capacity
}

// Len returns the number of resident pages.
func (t *FrameTable) Len() int {
	return len(t.index)
}

// IsFull returns true if every frame holds a page.
func (t *FrameTable) IsFull() bool {
	return len(t.freeList) == 0
}

// Contains returns true if the page is resident.
func (t *FrameTable) Contains(page trace.PageKey) bool {
	_, ok := t.index[page]
	return ok
}

// Insert places the page in the lowest-numbered free frame and returns the
// frame number. It panics if the page is already resident or the table is
// full.
func (t *FrameTable) Insert(page trace.PageKey) int {
	if t.Contains(page) {
		panic(fmt.Sprintf("page %s is already resident", page))
	}

	if t.IsFull() {
		panic(fmt.Sprintf("no free frame for page %s", page))
	}

	f := t.freeList[len(t.freeList)-1]
	t.freeList = t.freeList[:len(t.freeList)-1]

	t.index[page] = f

	return f
}

// Remove frees the frame that holds the page. Removing a page that is not
// resident does nothing.
func (t *FrameTable) Remove(page trace.PageKey) {
	f, ok := t.index[page]
	if !ok {
		return
	}

	delete(t.index, page)
	t.freeFrame(f)
}

// freeFrame keeps the free list sorted so that the lowest frame is reused
// first.
func (t *FrameTable) freeFrame(f int) {
	i := sort.Search(len(t.freeList), func(i int) bool {
		return t.freeList[i] < f
	})

	t.freeList = append(t.freeList, 0)
	copy(t.freeList[i+1:], t.freeList[i:])
	t.freeList[i] = f
}

// Keys returns the resident pages in ascending order.
func (t *FrameTable) Keys() []trace.PageKey {
	keys := make([]trace.PageKey, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

package tablegen

import (
	"sort"

	"github.com/sarchlab/pagewalk/walker"
)

// PageSize is the size of a page frame in bytes.
const PageSize = uint64(1) << walker.Log2PageSize

type extent struct {
	addr, size uint64
}

// A FrameAllocator hands out page frames from a range of physical
// addresses. It is a first-fit free-list allocator: Alloc takes the first
// block large enough and splits off the remainder, and Free coalesces the
// returned block with adjacent free neighbors.
type FrameAllocator struct {
	free      []extent
	allocated map[uint64]uint64
}

// NewFrameAllocator creates an allocator managing the range
// [base, base+capacity). Both bounds must be page aligned.
func NewFrameAllocator(base, capacity uint64) *FrameAllocator {
	if base%PageSize != 0 || capacity%PageSize != 0 {
		panic("allocator range must be page aligned")
	}
	if capacity == 0 {
		panic("allocator capacity must not be zero")
	}

	return &FrameAllocator{
		free:      []extent{{addr: base, size: capacity}},
		allocated: make(map[uint64]uint64),
	}
}

// AllocFrame allocates a single page frame.
func (a *FrameAllocator) AllocFrame() (uint64, bool) {
	return a.Alloc(PageSize)
}

// Alloc allocates a contiguous block of at least size bytes, rounded up to
// whole frames. The second return value is false if no free block is
// large enough.
func (a *FrameAllocator) Alloc(size uint64) (uint64, bool) {
	if size == 0 {
		return 0, false
	}
	size = (size + PageSize - 1) / PageSize * PageSize

	for i, e := range a.free {
		if e.size < size {
			continue
		}

		addr := e.addr
		if e.size == size {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = extent{addr: e.addr + size, size: e.size - size}
		}

		a.allocated[addr] = size

		return addr, true
	}

	return 0, false
}

// Free returns a block allocated by Alloc to the free list, merging it
// with its neighbors when they are free.
func (a *FrameAllocator) Free(addr uint64) {
	size, ok := a.allocated[addr]
	if !ok {
		panic("block was not allocated")
	}
	delete(a.allocated, addr)

	i := sort.Search(len(a.free), func(i int) bool {
		return a.free[i].addr > addr
	})

	a.free = append(a.free, extent{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = extent{addr: addr, size: size}

	a.coalesce(i)
	if i > 0 {
		a.coalesce(i - 1)
	}
}

// coalesce merges free[i] with free[i+1] if they are adjacent.
func (a *FrameAllocator) coalesce(i int) {
	if i+1 >= len(a.free) {
		return
	}

	if a.free[i].addr+a.free[i].size != a.free[i+1].addr {
		return
	}

	a.free[i].size += a.free[i+1].size
	a.free = append(a.free[:i+1], a.free[i+2:]...)
}

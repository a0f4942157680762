// Package tablegen synthesizes 4-level page tables inside a sparse
// physical memory, for building test fixtures and harness input files.
package tablegen

import (
	"fmt"

	"github.com/sarchlab/pagewalk/bitfield"
	"github.com/sarchlab/pagewalk/memory"
	"github.com/sarchlab/pagewalk/walker"
)

// A TableBuilder constructs the page tables that map virtual pages to
// physical frames. Table frames are taken from a FrameAllocator and the
// entries are written into a Storage, where a walker can consume them.
type TableBuilder struct {
	storage *memory.Storage
	alloc   *FrameAllocator

	root    uint64
	hasRoot bool
}

// NewTableBuilder creates a TableBuilder writing into the given storage
// and allocating table frames from the given allocator.
func NewTableBuilder(
	storage *memory.Storage,
	alloc *FrameAllocator,
) *TableBuilder {
	return &TableBuilder{
		storage: storage,
		alloc:   alloc,
	}
}

// RootTable returns the physical address of the top-level table,
// allocating it on first use.
func (b *TableBuilder) RootTable() (uint64, error) {
	if !b.hasRoot {
		frame, ok := b.alloc.AllocFrame()
		if !ok {
			return 0, fmt.Errorf("allocating root table: out of frames")
		}

		b.root = frame
		b.hasRoot = true
	}

	return b.root, nil
}

// Map establishes a translation from the virtual page at vAddr to the
// physical frame at pAddr, creating intermediate tables as needed. Both
// addresses must be page aligned.
func (b *TableBuilder) Map(vAddr, pAddr uint64) error {
	if vAddr%PageSize != 0 || pAddr%PageSize != 0 {
		panic("addresses must be page aligned")
	}

	table, err := b.RootTable()
	if err != nil {
		return err
	}

	last := len(walker.Levels) - 1
	for _, level := range walker.Levels[:last] {
		table, err = b.nextTable(table, level, vAddr)
		if err != nil {
			return err
		}
	}

	pt := walker.Levels[last]
	index := bitfield.Extract(vAddr, pt.Left, pt.Right)
	entryAddr := table + index*walker.EntrySize

	if walker.EntryPresent(b.storage.ReadWord(entryAddr)) {
		return fmt.Errorf("virtual address 0x%x is already mapped", vAddr)
	}

	b.storage.WriteWord(entryAddr, makeEntry(pAddr))

	return nil
}

// nextTable walks one intermediate level, allocating the next-level table
// if the entry is not present yet.
func (b *TableBuilder) nextTable(
	table uint64,
	level walker.Level,
	vAddr uint64,
) (uint64, error) {
	index := bitfield.Extract(vAddr, level.Left, level.Right)
	entryAddr := table + index*walker.EntrySize

	entry := b.storage.ReadWord(entryAddr)
	if walker.EntryPresent(entry) {
		return walker.EntryTableAddr(entry), nil
	}

	frame, ok := b.alloc.AllocFrame()
	if !ok {
		return 0, fmt.Errorf("allocating %s table: out of frames", level.Name)
	}

	b.storage.WriteWord(entryAddr, makeEntry(frame))

	return frame, nil
}

// makeEntry assembles a table entry naming a page-aligned physical
// address, with the present flag set.
func makeEntry(addr uint64) uint64 {
	entry := bitfield.Set(addr>>walker.Log2PageSize, 0, 51, walker.Log2PageSize)
	return bitfield.Set(1, entry, 0, 0)
}

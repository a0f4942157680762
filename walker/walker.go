// Package walker implements 4-level x86-64 style virtual-to-physical
// address translation over a sparse physical memory.
package walker

import (
	"github.com/sarchlab/pagewalk/bitfield"
)

// Log2PageSize is the log2 of the page size the walker supports. Only
// 4KB pages are modeled.
const Log2PageSize = 12

// EntrySize is the size of a table entry in bytes.
const EntrySize = 8

// PresentMask selects the present flag in the low 12 flag bits of a table
// entry.
const PresentMask uint64 = 1

// A Memory provides word-granularity read access to the simulated physical
// memory. Absent addresses must read as zero.
type Memory interface {
	ReadWord(addr uint64) uint64
}

// A Level describes one level of the page-table hierarchy: its name and
// the bit range of the logical address that indexes the table at that
// level.
type Level struct {
	Name        string
	Left, Right int
}

// Levels lists the four levels of the hierarchy from top to bottom. The
// partition of the logical address is fixed by the 4KB-page format and is
// not configurable.
var Levels = [4]Level{
	{Name: "PML4", Left: 47, Right: 39},
	{Name: "PDPT", Left: 38, Right: 30},
	{Name: "PD", Left: 29, Right: 21},
	{Name: "PT", Left: 20, Right: 12},
}

// EntryPresent reports whether a table entry can be used to continue a
// walk. An entry is usable iff its present flag (bit 0) is set. A zero
// word, which is what an unmapped address reads as, fails this check on
// the same path as a cleared present flag.
func EntryPresent(entry uint64) bool {
	return entry&PresentMask == PresentMask
}

// EntryTableAddr returns the physical address of the next-level table, or
// of the final frame, named by a table entry. The address field occupies
// bits 51..12 and names a 4KB-aligned address.
func EntryTableAddr(entry uint64) uint64 {
	return bitfield.Extract(entry, 51, 12) << Log2PageSize
}

// A Step records one table-entry fetch during a walk.
type Step struct {
	Level     Level
	Index     uint64
	EntryAddr uint64
	Entry     uint64
}

// A Result reports the outcome of one translation.
type Result struct {
	VAddr      uint64
	PAddr      uint64
	Fault      bool
	FaultLevel string
}

// A Walker owns a translation session: the root-table register (the CR3
// analogue) and the physical memory that holds the page tables. It is a
// read-only consumer of the tables; entries are never mutated by a walk.
type Walker struct {
	HookableBase

	name      string
	mem       Memory
	rootTable uint64
}

// Name returns the name of the walker.
func (w *Walker) Name() string {
	return w.name
}

// RootTable returns the physical address of the top-level table.
func (w *Walker) RootTable() uint64 {
	return w.rootTable
}

// SetRootTable points the walker at a new top-level table. No validation
// is performed on the address.
func (w *Walker) SetRootTable(addr uint64) {
	w.rootTable = addr
}

// Translate resolves a logical address to a physical address by walking
// the four table levels. The second return value is false if any entry
// along the walk is not present, in which case no partial result is
// returned.
func (w *Walker) Translate(vAddr uint64) (uint64, bool) {
	if w.NumHooks() > 0 {
		w.InvokeHook(HookCtx{Domain: w, Pos: HookPosWalkStart, Item: vAddr})
	}

	result := w.walk(vAddr)

	if w.NumHooks() > 0 {
		w.InvokeHook(HookCtx{Domain: w, Pos: HookPosWalkEnd, Item: result})
	}

	return result.PAddr, !result.Fault
}

func (w *Walker) walk(vAddr uint64) Result {
	table := w.rootTable

	for _, level := range Levels {
		entry, ok := w.fetchEntry(table, level, vAddr)
		if !ok {
			return Result{VAddr: vAddr, Fault: true, FaultLevel: level.Name}
		}

		table = EntryTableAddr(entry)
	}

	offset := bitfield.Extract(vAddr, Log2PageSize-1, 0)

	return Result{VAddr: vAddr, PAddr: table | offset}
}

// fetchEntry reads the table entry that the logical address selects at one
// level and checks its present flag.
func (w *Walker) fetchEntry(
	table uint64,
	level Level,
	vAddr uint64,
) (uint64, bool) {
	index := bitfield.Extract(vAddr, level.Left, level.Right)
	entryAddr := table + index*EntrySize
	entry := w.mem.ReadWord(entryAddr)

	if w.NumHooks() > 0 {
		w.InvokeHook(HookCtx{
			Domain: w,
			Pos:    HookPosWalkStep,
			Item: Step{
				Level:     level,
				Index:     index,
				EntryAddr: entryAddr,
				Entry:     entry,
			},
		})
	}

	return entry, EntryPresent(entry)
}

package walker

import "github.com/sarchlab/pagewalk/memory"

// A Builder can build walkers.
type Builder struct {
	mem       Memory
	rootTable uint64
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMemory sets the physical memory that holds the page tables. If no
// memory is given, the walker gets a new empty Storage.
func (b Builder) WithMemory(mem Memory) Builder {
	b.mem = mem
	return b
}

// WithRootTable sets the initial value of the root-table register.
func (b Builder) WithRootTable(addr uint64) Builder {
	b.rootTable = addr
	return b
}

// Build returns a newly created walker.
func (b Builder) Build(name string) *Walker {
	w := &Walker{
		name:      name,
		mem:       b.mem,
		rootTable: b.rootTable,
	}

	if w.mem == nil {
		w.mem = memory.NewStorage()
	}

	return w
}

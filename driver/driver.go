// Package driver loads and runs translation sessions described in the
// harness text format.
//
// The format is line-oriented and whitespace-separated. A header `m q r`
// gives the number of memory records, the number of queries, and the
// initial root-table register value. The next m lines hold `key value`
// memory records, and the next q lines hold one logical address each.
package driver

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/pagewalk/memory"
	"github.com/sarchlab/pagewalk/walker"
)

// FaultToken is printed for a query whose translation fails.
const FaultToken = "fault"

// A Session is one fully loaded translation exercise: the physical memory
// image, a walker pointed at it, and the queries to run.
type Session struct {
	Storage *memory.Storage
	Walker  *walker.Walker

	queries []uint64
}

// LoadSession reads a session description from r. Memory records are
// written in input order, so a later record for the same address
// overwrites an earlier one.
func LoadSession(r io.Reader) (*Session, error) {
	br := bufio.NewReader(r)

	var numRecords, numQueries, rootTable uint64
	if _, err := fmt.Fscan(br, &numRecords, &numQueries, &rootTable); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	storage := memory.NewStorage()
	for i := uint64(0); i < numRecords; i++ {
		var addr, value uint64
		if _, err := fmt.Fscan(br, &addr, &value); err != nil {
			return nil, fmt.Errorf("reading memory record %d: %w", i, err)
		}

		storage.WriteWord(addr, value)
	}

	queries := make([]uint64, numQueries)
	for i := range queries {
		if _, err := fmt.Fscan(br, &queries[i]); err != nil {
			return nil, fmt.Errorf("reading query %d: %w", i, err)
		}
	}

	w := walker.MakeBuilder().
		WithMemory(storage).
		WithRootTable(rootTable).
		Build("Walker")

	return &Session{
		Storage: storage,
		Walker:  w,
		queries: queries,
	}, nil
}

// NumQueries returns the number of queries the session will run.
func (s *Session) NumQueries() int {
	return len(s.queries)
}

// Run translates every query in input order and writes one line per
// query: the physical address in decimal, or the fault token.
func (s *Session) Run(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, vAddr := range s.queries {
		pAddr, ok := s.Walker.Translate(vAddr)
		if !ok {
			fmt.Fprintln(bw, FaultToken)
			continue
		}

		fmt.Fprintln(bw, pAddr)
	}

	return bw.Flush()
}

// Run loads a session from r and runs it against w.
func Run(r io.Reader, w io.Writer) error {
	session, err := LoadSession(r)
	if err != nil {
		return err
	}

	return session.Run(w)
}

// WriteSession writes a session description in the harness format, so
// that LoadSession can read it back. Memory records are written in
// ascending address order.
func WriteSession(
	w io.Writer,
	storage *memory.Storage,
	rootTable uint64,
	queries []uint64,
) error {
	words := storage.Words()

	addrs := make([]uint64, 0, len(words))
	for addr := range words {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d %d\n", len(addrs), len(queries), rootTable)
	for _, addr := range addrs {
		fmt.Fprintf(bw, "%d %d\n", addr, words[addr])
	}
	for _, vAddr := range queries {
		fmt.Fprintf(bw, "%d\n", vAddr)
	}

	return bw.Flush()
}

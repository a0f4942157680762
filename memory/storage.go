// Package memory provides a sparse model of the physical memory of the
// simulated machine.
package memory

import "sync"

// A Storage keeps the memory words of the guest system.
//
// The storage is sparse. It only allocates space for the words that have
// been written, and any address that was never written reads as zero. A
// zero word and an absent word are therefore indistinguishable to readers,
// which the translation engine relies on: an unmapped table entry reads as
// zero and fails the present check the same way a cleared entry does.
type Storage struct {
	sync.RWMutex
	words map[uint64]uint64
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{
		words: make(map[uint64]uint64),
	}
}

// ReadWord returns the 64-bit word at the given physical address, or 0 if
// the address was never written. It never fails.
func (s *Storage) ReadWord(addr uint64) uint64 {
	s.RLock()
	defer s.RUnlock()

	return s.words[addr]
}

// WriteWord stores a 64-bit word at the given physical address,
// overwriting any earlier value.
func (s *Storage) WriteWord(addr, value uint64) {
	s.Lock()
	defer s.Unlock()

	s.words[addr] = value
}

// NumWords returns the number of words that have been written.
func (s *Storage) NumWords() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.words)
}

// Words returns a copy of all the written words, keyed by physical address.
func (s *Storage) Words() map[uint64]uint64 {
	s.RLock()
	defer s.RUnlock()

	words := make(map[uint64]uint64, len(s.words))
	for addr, value := range s.words {
		words[addr] = value
	}

	return words
}

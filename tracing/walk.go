// Package tracing collects records of the walks that a walker performs.
package tracing

import "github.com/sarchlab/pagewalk/walker"

// A Walk is the trace of one translation: the queried address, the
// outcome, and every table entry fetched along the way.
type Walk struct {
	ID         string
	VAddr      uint64
	PAddr      uint64
	Fault      bool
	FaultLevel string
	Steps      []walker.Step
}

// A Tracer can collect walk traces
type Tracer interface {
	TraceWalk(walk Walk)
}

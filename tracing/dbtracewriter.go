package tracing

import "github.com/sarchlab/pagewalk/datarecording"

type walkEntry struct {
	ID         string
	VAddr      uint64
	PAddr      uint64
	Fault      bool
	FaultLevel string
	NumSteps   int
}

// DBTraceWriter is a tracer that stores the walks with a DataRecorder.
type DBTraceWriter struct {
	recorder datarecording.DataRecorder
}

// NewDBTraceWriter creates a DBTraceWriter writing through the given
// recorder.
func NewDBTraceWriter(recorder datarecording.DataRecorder) *DBTraceWriter {
	recorder.CreateTable("walks", walkEntry{})

	return &DBTraceWriter{recorder: recorder}
}

// TraceWalk records one walk.
func (t *DBTraceWriter) TraceWalk(walk Walk) {
	t.recorder.InsertData("walks", walkEntry{
		ID:         walk.ID,
		VAddr:      walk.VAddr,
		PAddr:      walk.PAddr,
		Fault:      walk.Fault,
		FaultLevel: walk.FaultLevel,
		NumSteps:   len(walk.Steps),
	})
}

// Flush writes the buffered walks to the database.
func (t *DBTraceWriter) Flush() {
	t.recorder.Flush()
}

package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a tracer that stores the walks into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	walks      []Walk
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the tracing csv file. The file must not exist yet.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "pagewalk_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "ID, VAddr, PAddr, Fault, FaultLevel, NumSteps\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// TraceWalk records one walk into the CSV file.
func (t *CSVTraceWriter) TraceWalk(walk Walk) {
	t.walks = append(t.walks, walk)
	if len(t.walks) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes all the buffered walks into the file.
func (t *CSVTraceWriter) Flush() {
	for _, walk := range t.walks {
		fmt.Fprintf(t.file, "%s, 0x%x, 0x%x, %t, %s, %d\n",
			walk.ID, walk.VAddr, walk.PAddr, walk.Fault,
			walk.FaultLevel, len(walk.Steps))
	}

	t.walks = nil
}

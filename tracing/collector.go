package tracing

import "sync"

// A CollectingTracer keeps the collected walks in memory.
type CollectingTracer struct {
	sync.Mutex
	walks []Walk
}

// NewCollectingTracer creates a CollectingTracer.
func NewCollectingTracer() *CollectingTracer {
	return &CollectingTracer{}
}

// TraceWalk records one walk.
func (t *CollectingTracer) TraceWalk(walk Walk) {
	t.Lock()
	defer t.Unlock()

	t.walks = append(t.walks, walk)
}

// Walks returns a copy of the collected walks.
func (t *CollectingTracer) Walks() []Walk {
	t.Lock()
	defer t.Unlock()

	walks := make([]Walk, len(t.walks))
	copy(walks, t.walks)

	return walks
}

package tracing

import (
	"github.com/rs/xid"

	"github.com/sarchlab/pagewalk/walker"
)

// A TraceHook is a hook that assembles the hook invocations of one walk
// into a Walk record and hands it to the tracers. Walks on one walker do
// not interleave, so a single in-progress record is enough.
type TraceHook struct {
	tracers []Tracer
	current Walk
}

// NewTraceHook creates a TraceHook that feeds the given tracers.
func NewTraceHook(tracers ...Tracer) *TraceHook {
	return &TraceHook{tracers: tracers}
}

// Func assembles walk records from the hook invocations.
func (h *TraceHook) Func(ctx walker.HookCtx) {
	switch ctx.Pos {
	case walker.HookPosWalkStart:
		h.current = Walk{
			ID:    xid.New().String(),
			VAddr: ctx.Item.(uint64),
		}
	case walker.HookPosWalkStep:
		h.current.Steps = append(h.current.Steps, ctx.Item.(walker.Step))
	case walker.HookPosWalkEnd:
		result := ctx.Item.(walker.Result)
		h.current.PAddr = result.PAddr
		h.current.Fault = result.Fault
		h.current.FaultLevel = result.FaultLevel

		for _, t := range h.tracers {
			t.TraceWalk(h.current)
		}
	}
}

// CollectWalks attaches tracers to a walker so that every translation it
// performs is traced.
func CollectWalks(w *walker.Walker, tracers ...Tracer) {
	w.AcceptHook(NewTraceHook(tracers...))
}

package walker

import "log"

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}

// A WalkLogger is a hook that prints every step of the walks that the
// walker it hooks to performs.
type WalkLogger struct {
	LogHookBase
}

// NewWalkLogger returns a new WalkLogger that will write into the logger.
func NewWalkLogger(logger *log.Logger) *WalkLogger {
	h := new(WalkLogger)
	h.Logger = logger
	return h
}

// Func writes the walk information into the logger
func (h *WalkLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosWalkStart:
		vAddr := ctx.Item.(uint64)
		h.Printf("%s: translate 0x%016x", ctx.Domain.(Named).Name(), vAddr)
	case HookPosWalkStep:
		step := ctx.Item.(Step)
		h.Printf("    %s[%d] @0x%x = 0x%016x",
			step.Level.Name, step.Index, step.EntryAddr, step.Entry)
	case HookPosWalkEnd:
		result := ctx.Item.(Result)
		if result.Fault {
			h.Printf("    fault at %s", result.FaultLevel)
			return
		}
		h.Printf("    paddr 0x%016x", result.PAddr)
	}
}

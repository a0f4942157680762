package walker

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosWalkStart is a hook position that triggers when a translation
// starts.
var HookPosWalkStart = &HookPos{Name: "Walk Start"}

// HookPosWalkStep is a hook position that triggers after a table entry is
// fetched at one level of the walk.
var HookPosWalkStep = &HookPos{Name: "Walk Step"}

// HookPosWalkEnd is a hook position that triggers when a translation
// completes, successfully or not.
var HookPosWalkEnd = &HookPos{Name: "Walk End"}

// HookCtx is the context that holds all the information about the site that
// a hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
}

// Named is an object that has a name.
type Named interface {
	Name() string
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered
	NumHooks() int
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of hooks registered
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

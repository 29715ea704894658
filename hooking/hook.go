// Package hooking lets the MMU components report what they do to any number
// of observers.
package hooking

// HookPos names a site in a component where hooks fire.
type HookPos struct {
	Name string
}

// HookCtx describes one firing of a hook.
type HookCtx struct {
	// Domain is the component that fired the hook.
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is a component that hooks can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase implements Hookable. Components embed it and call InvokeHook
// at their hook positions.
type HookableBase struct {
	hooks []Hook
}

// NumHooks returns how many hooks are attached.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the attached hooks in the order they were accepted.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// AcceptHook attaches a hook. Attaching the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, existing := range h.hooks {
		if existing == hook {
			panic("hook already attached")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// InvokeHook calls every attached hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

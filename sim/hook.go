package sim

// A HookPos names a point in the simulation loop where hooks are invoked.
type HookPos struct {
	Name string
}

// Hook positions triggered by the Simulator.
var (
	// HookPosAccess triggers after every access. The item is an Access.
	HookPosAccess = &HookPos{Name: "Access"}

	// HookPosPageFault triggers after an access that faulted. The item is an
	// Access.
	HookPosPageFault = &HookPos{Name: "PageFault"}

	// HookPosEviction triggers after an access that evicted a page. The item
	// is an Access.
	HookPosEviction = &HookPos{Name: "Eviction"}

	// HookPosRunEnd triggers once after the last access. The item is the
	// final Report.
	HookPosRunEnd = &HookPos{Name: "RunEnd"}
)

// HookCtx is what a hook receives when it is invoked.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
}

// A Hook observes the simulation. Hooks must not change the state of the
// simulator.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is implemented by everything that hooks can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
}

// HookableBase keeps a list of hooks and invokes them in registration order.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase without hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{Hooks: make([]Hook, 0)}
}

// AcceptHook appends a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns how many hooks are attached.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook calls every hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

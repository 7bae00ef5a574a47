package anim

import "github.com/recera/lunk/pkg/reactor"

// debugLog mirrors pkg/reactor's package-level debug hook, installed
// independently so a client can trace animation start/stop without
// also enabling the (much noisier) per-link scheduling trace.
var debugLog func(args ...interface{})

// SetDebugLog installs a function called when an animation starts,
// supersedes another, or finishes. Passing nil disables tracing.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// PrimAnimation is the primitive contract an Animator drives: something
// that knows which cell it targets (for supersede-on-same-target
// bookkeeping), and how to advance itself by one frame, writing its
// result directly into the target cell through the event scope's Ctx.
// The target reference is weak at the concrete-type level (see
// lerpAnimation and springAnimation): a dropped target silently ends
// the animation rather than panicking.
type PrimAnimation interface {
	// TargetID identifies the cell this animation writes. Starting a
	// second animation with the same TargetID supersedes the first.
	TargetID() uint64

	// Tick advances the animation by dt seconds and writes its new
	// value into the target cell if it is still alive. It reports
	// whether the animation has reached its end (or lost its target),
	// in which case the Animator removes it after this call.
	Tick(ctx *reactor.Ctx, dt float64) (done bool)
}

// Animator holds a set of active animations and drives them forward in
// lockstep, one event scope per Update call.
type Animator struct {
	active  map[uint64]PrimAnimation
	order   []uint64
	startCB func()
}

// New creates an empty Animator.
func New() *Animator {
	return &Animator{active: make(map[uint64]PrimAnimation)}
}

// SetStartCallback installs f to be invoked whenever the active set
// transitions from empty to non-empty — the hook a client uses to
// start scheduling per-frame Update calls (e.g. a ticker or a
// requestAnimationFrame-style loop) only while there is work to do.
func (a *Animator) SetStartCallback(f func()) {
	a.startCB = f
}

// Start adds anim to the active set. If a prior animation already
// targets the same cell, it is replaced (superseded) rather than run
// alongside it. If the active set was empty before this call, the
// start callback fires.
func (a *Animator) Start(anim PrimAnimation) {
	wasEmpty := len(a.active) == 0
	id := anim.TargetID()
	if _, exists := a.active[id]; exists {
		if debugLog != nil {
			debugLog("[anim] superseding animation targeting cell", id)
		}
	} else {
		a.order = append(a.order, id)
	}
	a.active[id] = anim
	if wasEmpty && a.startCB != nil {
		if debugLog != nil {
			debugLog("[anim] active set went empty -> non-empty, firing start callback")
		}
		a.startCB()
	}
}

// Active reports how many animations are currently running.
func (a *Animator) Active() int {
	return len(a.active)
}

// Update advances every active animation by dt inside a single event
// scope on eg, removing any that finish (or whose target cell has
// disappeared), and reports whether any animation remains active
// afterward.
func (a *Animator) Update(eg *reactor.EventGraph, dt float64) bool {
	eg.Event(func(ctx *reactor.Ctx) {
		for _, id := range a.order {
			anim, ok := a.active[id]
			if !ok {
				continue
			}
			if anim.Tick(ctx, dt) {
				if debugLog != nil {
					debugLog("[anim] animation targeting cell", id, "finished")
				}
				delete(a.active, id)
			}
		}
		if len(a.active) != len(a.order) {
			kept := a.order[:0:0]
			for _, id := range a.order {
				if _, ok := a.active[id]; ok {
					kept = append(kept, id)
				}
			}
			a.order = kept
		}
	})
	return len(a.active) > 0
}

package reactor

import "sync/atomic"

// Observer receives trace notifications at pass boundaries and around
// each link activation. It exists for introspection (pkg/livetrace,
// the CLI's per-pass trace) and has no effect on
// scheduling. A nil Observer (the default) disables tracing.
type Observer interface {
	PassStart(involved, leaves int)
	LinkActivated(linkID uint64)
}

// EventGraph is the scheduler: it accepts mutations and registrations
// inside an event scope and, on scope exit, runs Propagate until no
// work remains.
type EventGraph struct {
	scoped atomic.Bool

	dirtyOrder []uint64
	dirty      map[uint64]CellHandle

	newLinkOrder []uint64
	newLinks     map[uint64]*Link

	observer Observer
}

// New creates an empty EventGraph.
func New() *EventGraph {
	return &EventGraph{
		dirty:    make(map[uint64]CellHandle),
		newLinks: make(map[uint64]*Link),
	}
}

// Observe installs an Observer. Pass nil to remove it.
func (eg *EventGraph) Observe(o Observer) {
	eg.observer = o
}

// Ctx is the ProcessingContext passed to event bodies and link
// callbacks. It is only valid for the duration of the event scope that
// produced it.
type Ctx struct {
	eg *EventGraph
}

func (ctx *Ctx) markDirtyCell(c CellHandle) {
	eg := ctx.eg
	if _, exists := eg.dirty[c.id()]; exists {
		return
	}
	eg.dirty[c.id()] = c
	eg.dirtyOrder = append(eg.dirtyOrder, c.id())
}

func (ctx *Ctx) noteNewLink(l *Link) {
	eg := ctx.eg
	if _, exists := eg.newLinks[l.lid]; exists {
		return
	}
	eg.newLinks[l.lid] = l
	eg.newLinkOrder = append(eg.newLinkOrder, l.lid)
}

// Event opens an event scope. If a scope is already active on this
// EventGraph, the call is dropped: f is not invoked and propagation is
// not restarted. Otherwise f runs with a fresh Ctx, then
// Propagate runs until quiescent, and the scope flag is cleared on
// every exit path — including if f or a link callback panics — so a
// fault never permanently locks out future events.
func (eg *EventGraph) Event(f func(ctx *Ctx)) {
	if !eg.scoped.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[reactor] event dropped: scope already active")
		}
		return
	}
	defer eg.scoped.Store(false)

	ctx := &Ctx{eg: eg}
	f(ctx)
	eg.propagate(ctx)
}

// propagate repeats involved-set construction and activation until no
// dirty cells or new links remain.
func (eg *EventGraph) propagate(ctx *Ctx) {
	for len(eg.dirty) > 0 || len(eg.newLinks) > 0 {
		dirtyCells := eg.drainDirty()
		newLinks := eg.drainNewLinks()

		involved, leaves, cycleBreak := buildInvolved(dirtyCells, newLinks)
		if eg.observer != nil {
			eg.observer.PassStart(len(involved), len(leaves))
		}
		eg.activate(ctx, involved, leaves, cycleBreak)
	}
}

func (eg *EventGraph) drainDirty() []CellHandle {
	out := make([]CellHandle, 0, len(eg.dirtyOrder))
	for _, id := range eg.dirtyOrder {
		if c, ok := eg.dirty[id]; ok {
			out = append(out, c)
		}
	}
	eg.dirty = make(map[uint64]CellHandle)
	eg.dirtyOrder = nil
	return out
}

func (eg *EventGraph) drainNewLinks() []*Link {
	out := make([]*Link, 0, len(eg.newLinkOrder))
	for _, id := range eg.newLinkOrder {
		if l, ok := eg.newLinks[id]; ok {
			out = append(out, l)
		}
	}
	eg.newLinks = make(map[uint64]*Link)
	eg.newLinkOrder = nil
	return out
}

type nodeState uint8

const (
	notVisited nodeState = iota
	onStack
	done
)

type linkEdge struct {
	from, to uint64
}

// buildInvolved computes the involved set I and its leaves (§4.3.3).
// Seeds are the new links themselves (virtual seeds, guaranteed to
// fire once) plus the live dependents of every dirty cell. The walk
// marks a back-edge to a link already on the DFS path stack as a
// cycle-break edge: the edge is dropped from the ordering graph for
// this pass and does not count toward the source link's leaf-ness.
func buildInvolved(dirtyCells []CellHandle, newLinks []*Link) (involved map[uint64]*Link, leaves []*Link, cycleBreak map[linkEdge]bool) {
	state := make(map[uint64]nodeState)
	involved = make(map[uint64]*Link)
	cycleBreak = make(map[linkEdge]bool)

	var leafOrder []uint64
	leafSet := make(map[uint64]*Link)

	var visit func(l *Link)
	visit = func(l *Link) {
		if state[l.lid] != notVisited {
			return
		}
		state[l.lid] = onStack

		isLeaf := true
		if l.output != nil {
			for _, d := range l.output.liveDependents() {
				if state[d.lid] == onStack {
					cycleBreak[linkEdge{l.lid, d.lid}] = true
					continue
				}
				isLeaf = false
				visit(d)
			}
		}

		state[l.lid] = done
		involved[l.lid] = l
		if isLeaf {
			if _, exists := leafSet[l.lid]; !exists {
				leafSet[l.lid] = l
				leafOrder = append(leafOrder, l.lid)
			}
		}
	}

	for _, l := range newLinks {
		visit(l)
	}
	for _, c := range dirtyCells {
		for _, d := range c.liveDependents() {
			visit(d)
		}
	}

	leaves = make([]*Link, 0, len(leafOrder))
	for _, id := range leafOrder {
		leaves = append(leaves, leafSet[id])
	}
	return involved, leaves, cycleBreak
}

// activate runs a dependency-first DFS from each leaf, traversing
// upstream from a link to the writers of its inputs, restricted to the
// involved set and ignoring cycle-break edges, invoking each link's
// callback exactly once on unwind (§4.3.4).
func (eg *EventGraph) activate(ctx *Ctx, involved map[uint64]*Link, leaves []*Link, cycleBreak map[linkEdge]bool) {
	state := make(map[uint64]nodeState)

	var run func(l *Link)
	run = func(l *Link) {
		if state[l.lid] != notVisited {
			return
		}
		state[l.lid] = onStack

		for _, in := range l.inputs {
			for _, writer := range in.liveWriters() {
				if _, ok := involved[writer.lid]; !ok {
					continue
				}
				if cycleBreak[linkEdge{writer.lid, l.lid}] {
					continue
				}
				run(writer)
			}
		}

		state[l.lid] = done
		if debugLog != nil {
			debugLog("[reactor] activating link", l.lid)
		}
		l.cb(ctx)
		// A write to l's output needs no follow-up pass while every live
		// dependent of it is involved and still to run in this pass.
		if out := l.output; out != nil {
			if _, dirty := eg.dirty[out.id()]; dirty {
				pending := true
				for _, d := range out.liveDependents() {
					if _, ok := involved[d.lid]; !ok || state[d.lid] == done {
						pending = false
					}
				}
				if pending {
					delete(eg.dirty, out.id())
				}
			}
		}
		if eg.observer != nil {
			eg.observer.LinkActivated(l.lid)
		}
	}

	for _, leaf := range leaves {
		run(leaf)
	}
}

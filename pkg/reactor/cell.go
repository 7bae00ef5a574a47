package reactor

import (
	"reflect"
	"sync/atomic"
	"weak"
)

var nextCellID atomic.Uint64

func newCellID() uint64 {
	return nextCellID.Add(1)
}

// debugLog is set by SetDebugLog for tests and CLI tooling that want to
// trace dirty-root registration.
var debugLog func(args ...interface{})

// SetDebugLog installs a function called with tracing information
// whenever a cell write or link registration marks new work. Passing
// nil disables tracing.
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// CellHandle is the non-generic view of a Cell that Link and EventGraph
// operate over. Its method set is unexported by design: only Cell[T],
// defined in this package, may implement it. External code holds and
// passes around CellHandle values (e.g. building a Register input
// list) but cannot create new implementations.
type CellHandle interface {
	id() uint64
	liveDependents() []*Link
	liveWriters() []*Link
	addDependent(l *Link)
	removeDependent(l *Link)
	addWriter(l *Link)
	removeWriter(l *Link)
}

// Cell is a typed, identity-bearing mutable value participating in the
// graph. The zero value is not usable; construct with NewCell.
type Cell[T any] struct {
	cid   uint64
	value T
	eq    func(a, b T) bool

	depOrder []uint64
	deps     map[uint64]weak.Pointer[Link]

	writerOrder []uint64
	writers     map[uint64]weak.Pointer[Link]
}

// CellOption configures a Cell at construction time.
type CellOption[T any] func(*Cell[T])

// WithEqual overrides the default equality predicate (reflect.DeepEqual)
// used to suppress no-op writes.
func WithEqual[T any](eq func(a, b T) bool) CellOption[T] {
	return func(c *Cell[T]) { c.eq = eq }
}

// NewCell constructs a cell holding initial. Cells need no event scope
// to be created — nothing about construction alone marks dirty roots —
// so, unlike Link registration, no ctx parameter is required.
func NewCell[T any](initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		cid:     newCellID(),
		value:   initial,
		eq:      defaultEqual[T],
		deps:    make(map[uint64]weak.Pointer[Link]),
		writers: make(map[uint64]weak.Pointer[Link]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// Get returns the current value. No side effect, and safe at any time,
// including from inside a link callback.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set updates the value if it differs from the current one under the
// cell's equality predicate. A changed write registers the cell as a
// dirty root on ctx's graph; an equal write is silently a no-op and
// produces no activation.
func (c *Cell[T]) Set(ctx *Ctx, v T) {
	if c.eq(c.value, v) {
		return
	}
	c.value = v
	if debugLog != nil {
		debugLog("[reactor] cell", c.cid, "set, marking dirty")
	}
	ctx.markDirtyCell(c)
}

// Update atomically reads and rewrites the value via fn, subject to the
// same equality suppression as Set.
func (c *Cell[T]) Update(ctx *Ctx, fn func(T) T) {
	c.Set(ctx, fn(c.value))
}

// ID returns the cell's stable identity, usable for keying external
// structures (registries, animator supersede-on-same-target logic)
// without needing to compare pointers across generic instantiations.
func (c *Cell[T]) ID() uint64 { return c.cid }

func (c *Cell[T]) id() uint64 { return c.cid }

func (c *Cell[T]) addDependent(l *Link) {
	if _, ok := c.deps[l.lid]; ok {
		return
	}
	c.deps[l.lid] = weak.Make(l)
	c.depOrder = append(c.depOrder, l.lid)
}

func (c *Cell[T]) removeDependent(l *Link) {
	delete(c.deps, l.lid)
}

func (c *Cell[T]) addWriter(l *Link) {
	if _, ok := c.writers[l.lid]; ok {
		return
	}
	c.writers[l.lid] = weak.Make(l)
	c.writerOrder = append(c.writerOrder, l.lid)
}

func (c *Cell[T]) removeWriter(l *Link) {
	delete(c.writers, l.lid)
}

// liveDependents returns links declaring this cell as an input, in
// insertion order, lazily pruning any stale weak entry it finds (a
// dependent link that was garbage-collected without calling Unlink).
func (c *Cell[T]) liveDependents() []*Link {
	return pruneLive(&c.depOrder, c.deps)
}

func (c *Cell[T]) liveWriters() []*Link {
	return pruneLive(&c.writerOrder, c.writers)
}

func pruneLive(order *[]uint64, m map[uint64]weak.Pointer[Link]) []*Link {
	out := make([]*Link, 0, len(*order))
	kept := (*order)[:0:0]
	for _, id := range *order {
		wp, ok := m[id]
		if !ok {
			continue
		}
		l := wp.Value()
		if l == nil {
			delete(m, id)
			continue
		}
		out = append(out, l)
		kept = append(kept, id)
	}
	*order = kept
	return out
}

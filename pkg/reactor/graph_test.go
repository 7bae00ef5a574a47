package reactor

import "testing"

func TestLinearChain(t *testing.T) {
	eg := New()
	a := NewCell(0)
	b := NewCell(0)
	c := NewCell(0)

	var l1Count, l2Count int
	var l2RanAfterL1 bool
	var l1Ran bool

	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{a}, b, func(ctx *Ctx) {
			l1Count++
			l1Ran = true
			b.Set(ctx, a.Get()+1)
		})
		Register(ctx, []CellHandle{b}, c, func(ctx *Ctx) {
			l2Count++
			if l1Ran {
				l2RanAfterL1 = true
			}
			c.Set(ctx, b.Get()*2)
		})
	})

	if b.Get() != 1 || c.Get() != 2 {
		t.Fatalf("after initial registration: b=%d c=%d", b.Get(), c.Get())
	}
	if l1Count != 1 || l2Count != 1 {
		t.Fatalf("initial activation counts: l1=%d l2=%d", l1Count, l2Count)
	}

	eg.Event(func(ctx *Ctx) {
		a.Set(ctx, 3)
	})

	if b.Get() != 4 {
		t.Errorf("b = %d, want 4", b.Get())
	}
	if c.Get() != 8 {
		t.Errorf("c = %d, want 8", c.Get())
	}
	if l1Count != 2 {
		t.Errorf("L1 activated %d times, want 2", l1Count)
	}
	if l2Count != 2 {
		t.Errorf("L2 activated %d times, want 2", l2Count)
	}
	if !l2RanAfterL1 {
		t.Errorf("L2 did not observe L1 having already run")
	}
}

func TestEqualitySuppression(t *testing.T) {
	eg := New()
	a := NewCell(0)
	b := NewCell(0)
	c := NewCell(0)

	var activations int
	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{a}, b, func(ctx *Ctx) {
			activations++
			b.Set(ctx, a.Get()+1)
		})
		Register(ctx, []CellHandle{b}, c, func(ctx *Ctx) {
			activations++
			c.Set(ctx, b.Get()*2)
		})
	})

	eg.Event(func(ctx *Ctx) { a.Set(ctx, 3) })
	before := activations

	eg.Event(func(ctx *Ctx) { a.Set(ctx, 3) })
	if activations != before {
		t.Fatalf("equal write caused %d new activations, want 0", activations-before)
	}
}

// TestTextboxMirror exercises two cells mirroring each other through a
// pair of links, forming a cycle that must be broken rather than
// looping forever, and must converge to a fixed point in the same
// event.
func TestTextboxMirror(t *testing.T) {
	eg := New()
	model := NewCell("a")
	view := NewCell("a")

	Register0 := func(ctx *Ctx) *Link {
		return Register(ctx, []CellHandle{model}, view, func(ctx *Ctx) {
			view.Set(ctx, model.Get())
		})
	}
	Register1 := func(ctx *Ctx) *Link {
		return Register(ctx, []CellHandle{view}, model, func(ctx *Ctx) {
			model.Set(ctx, view.Get())
		})
	}

	eg.Event(func(ctx *Ctx) {
		Register0(ctx)
		Register1(ctx)
	})

	eg.Event(func(ctx *Ctx) {
		view.Set(ctx, "ab")
	})

	if model.Get() != "ab" {
		t.Errorf("model = %q, want %q", model.Get(), "ab")
	}
	if view.Get() != "ab" {
		t.Errorf("view = %q, want %q", view.Get(), "ab")
	}
}

// TestDirtyDuringActivation covers a link that dirties a cell earlier
// in the chain while the pass is still running, which must schedule a
// follow-up pass rather than splice into the current one.
func TestDirtyDuringActivation(t *testing.T) {
	eg := New()
	a := NewCell(0)
	b := NewCell(0)
	c := NewCell(0)

	writeTenWhenCIs2 := false

	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{a}, b, func(ctx *Ctx) {
			b.Set(ctx, a.Get()+1)
		})
		Register(ctx, []CellHandle{b}, c, func(ctx *Ctx) {
			c.Set(ctx, b.Get()+1)
			if writeTenWhenCIs2 && c.Get() == 2 {
				a.Set(ctx, 10)
			} else {
				a.Set(ctx, a.Get())
			}
		})
	})

	eg.Event(func(ctx *Ctx) { a.Set(ctx, 1) })
	if a.Get() != 1 || b.Get() != 2 || c.Get() != 3 {
		t.Fatalf("first variant: a=%d b=%d c=%d, want 1 2 3", a.Get(), b.Get(), c.Get())
	}

	// second variant: second pass triggered because c==2 condition
	// would have held on an earlier value; rebuild the graph so c's
	// baseline matches the second walkthrough below.
	eg2 := New()
	a2 := NewCell(0)
	b2 := NewCell(0)
	c2 := NewCell(0)
	eg2.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{a2}, b2, func(ctx *Ctx) {
			b2.Set(ctx, a2.Get()+1)
		})
		Register(ctx, []CellHandle{b2}, c2, func(ctx *Ctx) {
			c2.Set(ctx, b2.Get()+1)
			a2.Set(ctx, 10)
		})
	})
	eg2.Event(func(ctx *Ctx) { a2.Set(ctx, 1) })
	if a2.Get() != 10 || b2.Get() != 11 || c2.Get() != 12 {
		t.Fatalf("second variant: a=%d b=%d c=%d, want 10 11 12", a2.Get(), b2.Get(), c2.Get())
	}
}

// TestLinkCreatedMidEvent covers a link registered mid-event against a
// cell already written earlier in that same event: it must still fire
// once before the event scope returns.
func TestLinkCreatedMidEvent(t *testing.T) {
	eg := New()
	var y *Cell[int]

	eg.Event(func(ctx *Ctx) {
		x := NewCell(0)
		x.Set(ctx, 5)
		y = NewCell(0)
		Register(ctx, []CellHandle{x}, y, func(ctx *Ctx) {
			y.Set(ctx, x.Get()+1)
		})
	})

	if y.Get() != 6 {
		t.Fatalf("y = %d, want 6", y.Get())
	}
}

func TestNoInputLinkFiresOnceOnRegistration(t *testing.T) {
	eg := New()
	fired := 0
	eg.Event(func(ctx *Ctx) {
		Register(ctx, nil, nil, func(ctx *Ctx) {
			fired++
		})
	})
	eg.Event(func(ctx *Ctx) {})
	if fired != 1 {
		t.Fatalf("no-input link fired %d times, want 1", fired)
	}
}

func TestReentrantEventIsDropped(t *testing.T) {
	eg := New()
	inner := 0
	eg.Event(func(ctx *Ctx) {
		eg.Event(func(ctx *Ctx) { inner++ })
	})
	if inner != 0 {
		t.Fatalf("nested Event body ran %d times, want 0", inner)
	}
}

func TestScopeClearedAfterPanic(t *testing.T) {
	eg := New()
	func() {
		defer func() { recover() }()
		eg.Event(func(ctx *Ctx) {
			panic("boom")
		})
	}()

	ran := false
	eg.Event(func(ctx *Ctx) { ran = true })
	if !ran {
		t.Fatal("event scope stayed locked after a panic")
	}
}

// TestWeakLinkDroppedWhenUnreferenced asserts the no-panic / graceful-
// absence half of P8: once a link is no longer strongly referenced
// anywhere, liveDependents must treat a stale weak entry as absent
// rather than panicking. Forcing an actual GC cycle deterministically
// is out of scope for a unit test, so this exercises the prune path
// directly by calling Unlink, which is the explicit-teardown sibling
// of weak-reference collection (see Link.Unlink).
func TestWeakLinkDroppedWhenUnreferenced(t *testing.T) {
	eg := New()
	a := NewCell(0)
	b := NewCell(0)

	var l *Link
	eg.Event(func(ctx *Ctx) {
		l = Register(ctx, []CellHandle{a}, b, func(ctx *Ctx) {
			b.Set(ctx, a.Get()+1)
		})
	})
	l.Unlink()

	eg.Event(func(ctx *Ctx) {
		a.Set(ctx, 1)
	})
	if b.Get() != 1 {
		t.Fatalf("b = %d, want 1 from registration (unlinked link must not activate)", b.Get())
	}
}

package reactor

import "testing"

func TestCellGetSetNoScope(t *testing.T) {
	c := NewCell(42)
	if c.Get() != 42 {
		t.Fatalf("Get() = %d, want 42", c.Get())
	}
}

func TestCellCustomEquality(t *testing.T) {
	type point struct{ x, y int }
	eg := New()
	fires := 0
	p := NewCell(point{1, 1}, WithEqual(func(a, b point) bool {
		return a.x == b.x // ignore y entirely
	}))

	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{p}, nil, func(ctx *Ctx) {
			fires++
		})
	})
	base := fires

	eg.Event(func(ctx *Ctx) {
		p.Set(ctx, point{1, 999}) // x unchanged -> custom eq suppresses
	})
	if fires != base {
		t.Fatalf("custom equality did not suppress: fires=%d base=%d", fires, base)
	}

	eg.Event(func(ctx *Ctx) {
		p.Set(ctx, point{2, 999})
	})
	if fires != base+1 {
		t.Fatalf("changed x did not activate: fires=%d base=%d", fires, base)
	}
}

func TestAtMostOncePerPassWithDiamond(t *testing.T) {
	// a feeds both b and c, both of which feed d: d must activate once
	// per pass even though two of its inputs changed.
	eg := New()
	a := NewCell(0)
	b := NewCell(0)
	c := NewCell(0)
	d := NewCell(0)

	dCount := 0
	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{a}, b, func(ctx *Ctx) { b.Set(ctx, a.Get()+1) })
		Register(ctx, []CellHandle{a}, c, func(ctx *Ctx) { c.Set(ctx, a.Get()+2) })
		Register(ctx, []CellHandle{b, c}, d, func(ctx *Ctx) {
			dCount++
			d.Set(ctx, b.Get()+c.Get())
		})
	})
	base := dCount

	eg.Event(func(ctx *Ctx) { a.Set(ctx, 10) })

	if dCount != base+1 {
		t.Fatalf("d activated %d times this pass, want 1", dCount-base)
	}
	if d.Get() != 23 {
		t.Fatalf("d = %d, want 23", d.Get())
	}
}

func TestThreeLinkCycleTerminates(t *testing.T) {
	// x -> y -> z -> x, each link copying its input once, seeded by a
	// write to x. Must terminate without activating any link more than
	// once per pass and without an unbounded number of passes.
	eg := New()
	x := NewCell(0)
	y := NewCell(0)
	z := NewCell(0)

	counts := map[string]int{}
	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{x}, y, func(ctx *Ctx) {
			counts["xy"]++
			y.Set(ctx, x.Get())
		})
		Register(ctx, []CellHandle{y}, z, func(ctx *Ctx) {
			counts["yz"]++
			z.Set(ctx, y.Get())
		})
		Register(ctx, []CellHandle{z}, x, func(ctx *Ctx) {
			counts["zx"]++
			x.Set(ctx, z.Get())
		})
	})

	for k := range counts {
		counts[k] = 0
	}

	eg.Event(func(ctx *Ctx) { x.Set(ctx, 7) })

	if x.Get() != 7 || y.Get() != 7 || z.Get() != 7 {
		t.Fatalf("cycle did not converge: x=%d y=%d z=%d", x.Get(), y.Get(), z.Get())
	}
	for k, n := range counts {
		if n > 2 {
			t.Errorf("link %s activated %d times, suspiciously high for a 3-cycle", k, n)
		}
	}
}

func TestSeqCellSplice(t *testing.T) {
	eg := New()
	s := NewSeqCell([]int{1, 2, 3})

	fires := 0
	eg.Event(func(ctx *Ctx) {
		Register(ctx, []CellHandle{s.Cell}, nil, func(ctx *Ctx) {
			fires++
		})
	})
	base := fires

	eg.Event(func(ctx *Ctx) {
		s.Splice(ctx, 1, 1, 9, 10)
	})
	got := s.Get()
	want := []int{1, 9, 10, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if fires != base+1 {
		t.Fatalf("splice did not mark dirty: fires=%d base=%d", fires, base)
	}

	eg.Event(func(ctx *Ctx) {
		s.Remove(ctx, 0, 0) // no-op removal: same content
	})
	if fires != base+1 {
		t.Fatalf("no-op splice incorrectly activated a link")
	}
}

func TestSeqCellSpliceNegativeDeleteCountDeletesNothing(t *testing.T) {
	eg := New()
	s := NewSeqCell([]int{1, 2, 3})

	eg.Event(func(ctx *Ctx) {
		s.Remove(ctx, 1, -5)
	})
	got := s.Get()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

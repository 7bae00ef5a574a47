package anim

import (
	"math"
	"weak"

	"github.com/charmbracelet/harmonica"
	"github.com/recera/lunk/pkg/reactor"
)

// springAnimation is a PrimAnimation driven by a damped harmonic
// oscillator (github.com/charmbracelet/harmonica) instead of a fixed
// duration and easing curve. Unlike lerpAnimation it never has a
// pre-known endpoint; it settles when position and velocity both fall
// within settleEpsilon of the target, at which point it snaps exactly
// to rest and reports done.
type springAnimation struct {
	target           weak.Pointer[reactor.Cell[float64]]
	targetID         uint64
	spring           harmonica.Spring
	angularFrequency float64
	damping          float64
	frameTime        float64
	pos, vel         float64
	to               float64
	settleEps        float64
}

// SpringOption configures a spring animation at construction time.
type SpringOption func(*springAnimation)

// WithSettleEpsilon overrides the default settle tolerance (1e-3) used
// to decide when the spring has effectively come to rest.
func WithSettleEpsilon(eps float64) SpringOption {
	return func(s *springAnimation) { s.settleEps = eps }
}

// NewSpring builds a PrimAnimation that drives target toward to using a
// damped harmonic oscillator with the given angular frequency and
// damping ratio (see harmonica.NewSpring for their meaning: damping < 1
// underdamps/overshoots, damping == 1 critically damps, damping > 1
// overdamps).
func NewSpring(target *reactor.Cell[float64], to, angularFrequency, damping float64, opts ...SpringOption) PrimAnimation {
	s := &springAnimation{
		target:           weak.Make(target),
		targetID:         target.ID(),
		pos:              target.Get(),
		to:               to,
		angularFrequency: angularFrequency,
		damping:          damping,
		frameTime:        harmonica.FPS(60),
		settleEps:        1e-3,
	}
	s.spring = harmonica.NewSpring(s.frameTime, angularFrequency, damping)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *springAnimation) TargetID() uint64 { return s.targetID }

func (s *springAnimation) Tick(ctx *reactor.Ctx, dt float64) bool {
	target := s.target.Value()
	if target == nil {
		return true
	}

	// harmonica.Spring bakes its delta-time into the spring's internal
	// constants at construction; re-derive it per tick so a variable
	// frame pacing (as opposed to the CLI demo's fixed-rate ticker)
	// still integrates correctly.
	if dt > 0 && dt != s.frameTime {
		s.frameTime = dt
		s.spring = harmonica.NewSpring(dt, s.angularFrequency, s.damping)
	}

	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.to)

	settled := math.Abs(s.pos-s.to) < s.settleEps && math.Abs(s.vel) < s.settleEps
	if settled {
		s.pos = s.to
		s.vel = 0
	}
	target.Set(ctx, s.pos)
	return settled
}

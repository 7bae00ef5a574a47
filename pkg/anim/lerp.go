package anim

import (
	"weak"

	"github.com/recera/lunk/pkg/reactor"
)

// Number constrains the scalar types a lerpAnimation can interpolate.
type Number interface {
	~float32 | ~float64
}

// lerpAnimation is the default PrimAnimation: elapsed/duration-driven
// linear interpolation between a start and end value, shaped by an
// easing function, writing a weakly-referenced target cell.
type lerpAnimation[T Number] struct {
	target   weak.Pointer[reactor.Cell[T]]
	targetID uint64
	start    T
	end      T
	duration float64
	easing   EasingFunc
	elapsed  float64
}

// NewLerp builds a PrimAnimation that carries target from its current
// value to end over duration seconds, reshaping normalized progress
// through easing. Passing a nil easing defaults to Linear.
func NewLerp[T Number](target *reactor.Cell[T], end T, duration float64, easing EasingFunc) PrimAnimation {
	if easing == nil {
		easing = Linear
	}
	return &lerpAnimation[T]{
		target:   weak.Make(target),
		targetID: target.ID(),
		start:    target.Get(),
		end:      end,
		duration: duration,
		easing:   easing,
	}
}

func (l *lerpAnimation[T]) TargetID() uint64 { return l.targetID }

func (l *lerpAnimation[T]) Tick(ctx *reactor.Ctx, dt float64) bool {
	target := l.target.Value()
	if target == nil {
		return true
	}

	l.elapsed += dt
	progress := 1.0
	if l.duration > 0 {
		progress = clamp01(l.elapsed / l.duration)
	}
	eased := l.easing(progress)
	value := l.start + T(eased)*(l.end-l.start)

	done := l.elapsed >= l.duration
	if done {
		value = l.end // exact endpoint write, regardless of easing overshoot
	}
	target.Set(ctx, value)
	return done
}

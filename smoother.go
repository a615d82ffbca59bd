package tuner

import "time"

// EasingFunc maps normalized animation progress t in [0, 1] to eased
// progress in [0, 1]. Implementations must return 0 at 0 and 1 at 1.
type EasingFunc func(t float64) float64

// EaseOutQuad decelerates toward the target: t(2-t).
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// Linear advances at constant speed.
func Linear(t float64) float64 {
	return t
}

// Smoother animates a value toward its most recent target.
//
// At most one interpolation is active. SetTarget restarts the animation from
// the current interpolated value, so a new target redirects the needle
// without snapping and without queueing. Smoother is not safe for concurrent
// use; the goroutine that sets targets must also be the one reading values.
type Smoother struct {
	start     float64
	target    float64
	startTime time.Time
	duration  time.Duration
	easing    EasingFunc
}

// NewSmoother creates a smoother resting at 0. A nil easing uses EaseOutQuad.
func NewSmoother(duration time.Duration, easing EasingFunc) *Smoother {
	if easing == nil {
		easing = EaseOutQuad
	}
	return &Smoother{
		duration: duration,
		easing:   easing,
	}
}

// SetTarget starts a new interpolation from the value at now toward target.
func (s *Smoother) SetTarget(target float64, now time.Time) {
	s.start = s.Value(now)
	s.target = target
	s.startTime = now
}

// Value returns the interpolated value at now.
func (s *Smoother) Value(now time.Time) float64 {
	p := s.progress(now)
	if p >= 1 {
		return s.target
	}
	return s.start + (s.target-s.start)*s.easing(p)
}

// Target returns the endpoint of the active interpolation.
func (s *Smoother) Target() float64 {
	return s.target
}

// Active reports whether the interpolation is still in flight at now.
func (s *Smoother) Active(now time.Time) bool {
	return s.progress(now) < 1
}

// Reset returns the smoother to rest at 0.
func (s *Smoother) Reset() {
	s.start = 0
	s.target = 0
	s.startTime = time.Time{}
}

// progress returns the normalized elapsed time clamped to [0, 1].
func (s *Smoother) progress(now time.Time) float64 {
	if s.duration <= 0 || s.startTime.IsZero() {
		return 1
	}
	elapsed := now.Sub(s.startTime)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= s.duration {
		return 1
	}
	return float64(elapsed) / float64(s.duration)
}

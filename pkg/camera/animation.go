package camera

import "time"

// Duration of every camera move.
const Duration = 300 * time.Millisecond

// State is a camera position in normalized coordinates.
type State struct {
	X, Y, Ratio float64
}

// Default is the fit-all view.
var Default = State{X: 0.5, Y: 0.5, Ratio: 1}

// Animation interpolates between two states.
type Animation struct {
	From, To State
	Start    time.Time
	Duration time.Duration
}

// Progress returns the linear progress in [0, 1] at now.
func (a Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(a.Start)) / float64(a.Duration)
	return min(1, max(0, t))
}

// At returns the eased state at now.
func (a Animation) At(now time.Time) State {
	k := EaseQuadInOut(a.Progress(now))
	return State{
		X:     a.From.X + (a.To.X-a.From.X)*k,
		Y:     a.From.Y + (a.To.Y-a.From.Y)*k,
		Ratio: a.From.Ratio + (a.To.Ratio-a.From.Ratio)*k,
	}
}

// Done reports whether the animation has finished at now.
func (a Animation) Done(now time.Time) bool {
	return a.Progress(now) >= 1
}

// EaseQuadInOut is the quadratic in-out easing curve.
func EaseQuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

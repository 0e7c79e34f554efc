package latentspace

import "math"

// The warp happens inside [WarpStart, WarpEnd) of every segment: the camera
// holds still before it, jumps through it, and rests after it.
const (
	WarpStart = 0.3
	WarpEnd   = 0.7
)

// Segment maps scroll progress p (clamped to [0, 1]) onto n clusters and
// returns the index of the segment's first cluster and the position t within
// it. segment is always in [0, n-2]; t is in [0, 1] and reaches 1 only at p = 1.
func Segment(p float64, n int) (segment int, t float64) {
	if n < 2 {
		return 0, 0
	}
	progress := clampProgress(p) * float64(n-1)
	segment = clampInt(int(math.Floor(progress)), 0, n-2)
	return segment, progress - float64(segment)
}

// ActiveIndex returns the cluster nearest to scroll progress p. Halfway
// points round to the even index.
func ActiveIndex(p float64, n int) int {
	if n < 1 {
		return 0
	}
	progress := clampProgress(p) * float64(n-1)
	return clampInt(int(math.RoundToEven(progress)), 0, n-1)
}

// WarpEase is the three-phase camera easing curve: 0 before WarpStart,
// smoothstep across the warp window, and 1 from WarpEnd on.
func WarpEase(t float64) float64 {
	switch {
	case t < WarpStart:
		return 0
	case t < WarpEnd:
		n := (t - WarpStart) / (WarpEnd - WarpStart)
		return n * n * (3 - 2*n)
	default:
		return 1
	}
}

// WarpIntensity is a sine bump over the warp window. It is exactly 0 outside
// the window and peaks at 1 at the window's midpoint.
func WarpIntensity(t float64) float64 {
	if t < WarpStart || t >= WarpEnd {
		return 0
	}
	n := (t - WarpStart) / (WarpEnd - WarpStart)
	return math.Sin(n * math.Pi)
}

// WarpTween is WarpEase in the gween easing signature, so a tween can run
// the same slow-jump-slow curve over time.
func WarpTween(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	return b + c*float32(WarpEase(float64(t/d)))
}

// clampProgress clamps p into [0, 1]; NaN becomes 0.
func clampProgress(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return clamp01(p)
}

// Package gesture recognizes directional wheel gestures from a stream of
// raw wheel-delta samples reported by the low-level mouse hook, per
// spec §4.5: a gesture fires once accumulated delta along one axis
// exceeds a threshold within a sliding window of continuous activity.
package gesture

import "time"

// Axis identifies which of the two wheel axes and directions a resolved
// gesture belongs to.
type Axis int

const (
	Left Axis = iota
	Right
	Up
	Down
)

// StandardWheelDelta is WHEEL_DELTA, the notch size Windows reports for
// one detent of wheel rotation.
const StandardWheelDelta = 120

// DefaultThreshold is 3x a single wheel notch, the §4.5 default.
const DefaultThreshold = 3 * StandardWheelDelta

// DefaultWindow is the sliding activity window §4.5 specifies.
const DefaultWindow = 300 * time.Millisecond

// Accumulator tracks in-flight wheel activity on both axes and reports a
// resolved gesture once one axis crosses its threshold within Window of
// continuous activity. It holds no OS resources and is safe to drive
// from a single goroutine (the hotkey/mouse-hook thread).
type Accumulator struct {
	Threshold int
	Window    time.Duration

	horizontal float64
	vertical   float64
	lastEvent  time.Time
}

// NewAccumulator builds an Accumulator with the §4.5 defaults.
func NewAccumulator() *Accumulator {
	return &Accumulator{Threshold: DefaultThreshold, Window: DefaultWindow}
}

// FeedVertical adds a vertical wheel delta (positive is up, matching
// WHEEL_DELTA's sign convention) at time now, returning a resolved
// gesture if the accumulated magnitude crosses Threshold.
func (a *Accumulator) FeedVertical(delta int, now time.Time) (Axis, bool) {
	a.resetIfStale(now)
	a.vertical += float64(delta)
	a.lastEvent = now
	if a.vertical >= float64(a.Threshold) {
		a.vertical = 0
		return Up, true
	}
	if a.vertical <= -float64(a.Threshold) {
		a.vertical = 0
		return Down, true
	}
	return 0, false
}

// FeedHorizontal adds a horizontal wheel delta (positive is right) at
// time now, returning a resolved gesture if the accumulated magnitude
// crosses Threshold.
func (a *Accumulator) FeedHorizontal(delta int, now time.Time) (Axis, bool) {
	a.resetIfStale(now)
	a.horizontal += float64(delta)
	a.lastEvent = now
	if a.horizontal >= float64(a.Threshold) {
		a.horizontal = 0
		return Right, true
	}
	if a.horizontal <= -float64(a.Threshold) {
		a.horizontal = 0
		return Left, true
	}
	return 0, false
}

// resetIfStale zeroes both accumulators when the gap since the last
// sample exceeds Window, so a slow trickle of small wheel ticks never
// builds up into a spurious gesture.
func (a *Accumulator) resetIfStale(now time.Time) {
	if a.lastEvent.IsZero() {
		return
	}
	if now.Sub(a.lastEvent) > a.Window {
		a.horizontal = 0
		a.vertical = 0
	}
}

package vlist

import (
	"math"
	"time"
)

const (
	// RemeasureWait is the trailing-edge throttle window for remeasuring
	// after a width change.
	RemeasureWait = 200 * time.Millisecond

	// StickGuardWait is how long after the last resize scroll events are
	// kept from changing the stick state.
	StickGuardWait = 200 * time.Millisecond
)

// Size is a viewport content-box size.
type Size struct {
	Width  float64
	Height float64
}

// ResizeResult describes what a resize event changed.
type ResizeResult struct {
	HeightChanged bool
	WidthChanged  bool
	Capacity      int
}

// Resizer turns viewport size changes into capacity updates, width-driven
// remeasurement and the stick guard.
type Resizer struct {
	estimate float64
	size     Size
	capacity int

	remeasure *Limiter
	guard     *Limiter
	stick     *Stick
}

// NewResizer wires a Resizer. remeasure runs on the trailing edge of a
// width-change burst; stick is suspended on every resize and resumed once
// resizes stop.
func NewResizer(estimate float64, sched Scheduler, stick *Stick, remeasure func()) *Resizer {
	return &Resizer{
		estimate:  estimate,
		remeasure: NewThrottle(sched, RemeasureWait, Trailing, remeasure),
		guard:     NewDebounce(sched, StickGuardWait, Trailing, stick.Resume),
		stick:     stick,
	}
}

// Size returns the last observed viewport size.
func (r *Resizer) Size() Size { return r.size }

// Capacity returns how many estimated-height items fit in the viewport.
func (r *Resizer) Capacity() int { return r.capacity }

// Apply records a new viewport size.
func (r *Resizer) Apply(sz Size) ResizeResult {
	res := ResizeResult{
		HeightChanged: sz.Height != r.size.Height,
		WidthChanged:  sz.Width != r.size.Width,
	}
	r.size = sz
	if res.HeightChanged {
		r.capacity = capacityFor(sz.Height, r.estimate)
	}
	if res.WidthChanged {
		r.remeasure.Call()
	}
	r.stick.Suspend()
	r.guard.Call()
	res.Capacity = r.capacity
	return res
}

// Reset records sz as the current size without the side effects of a
// resize event.
func (r *Resizer) Reset(sz Size) {
	r.size = sz
	r.capacity = capacityFor(sz.Height, r.estimate)
}

// SetHeight updates the tracked height without the side effects of a resize
// event. Scroll handling uses it when it re-reads the viewport.
func (r *Resizer) SetHeight(h float64) {
	if h == r.size.Height {
		return
	}
	r.size.Height = h
	r.capacity = capacityFor(h, r.estimate)
}

// Stop cancels pending remeasure and guard timers.
func (r *Resizer) Stop() {
	r.remeasure.Cancel()
	r.guard.Cancel()
}

func capacityFor(height, estimate float64) int {
	if height <= 0 || estimate <= 0 {
		return 0
	}
	return int(math.Ceil(height / estimate))
}

package vlist

// VisibilityEntry reports that a materialized item started or stopped
// intersecting the viewport.
type VisibilityEntry struct {
	Index        int
	Intersecting bool
}

// MeasurementProvider reports the rendered heights of the currently
// materialized items as one contiguous ascending run.
type MeasurementProvider interface {
	Measure() ([]Measurement, error)
}

// VisibilityProvider delivers visibility transitions of materialized items.
// An error returned by the callback is a host-contract violation detected by
// the session and must be surfaced by the host.
type VisibilityProvider interface {
	ObserveVisibility(fn func([]VisibilityEntry) error) (unsubscribe func())
}

// ResizeProvider delivers viewport content-box size changes.
type ResizeProvider interface {
	ObserveResize(fn func(Size)) (unsubscribe func())
}

// ScrollSurface is the scrollable viewport.
//
// ScrollTo is a programmatic request: the surface clamps it to its valid range
// and must not invoke scroll observers for it. Observers are for user scrolls.
type ScrollSurface interface {
	ScrollOffset() float64
	ScrollTo(offset float64)
	Viewport() Size
	ObserveScroll(fn func()) (unsubscribe func())
}

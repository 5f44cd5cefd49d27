// Package vlist is the windowing engine behind a virtualized list: it decides
// which contiguous slice of a long, append-mostly list must be materialized
// so only the items near the viewport are rendered.
//
// A Session keeps a cumulative height table that starts from an estimated
// item height and is corrected as the host reports measured heights, keeps
// the view pinned to the newest item until the user scrolls away, and counts
// the items appended since the user last saw the end of the list.
//
// The session never touches a display. The host supplies a ScrollSurface,
// MeasurementProvider, VisibilityProvider, ResizeProvider and Scheduler and
// drives render passes through Settle:
//
//	frame, _, err := sess.Settle(len(items), func(f vlist.Frame) error {
//		return renderItems(items[f.Range.Start:f.Range.End], f.OffsetTop)
//	})
//
// All calls, including provider and timer callbacks, must happen on a single
// event loop.
package vlist

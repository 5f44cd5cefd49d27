package vlist

import "sort"

// Range is a half-open span [Start, End) of item indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether i lies in the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Grows reports whether r reaches beyond prev on either side, meaning items
// that were not materialized before are entering the window.
func (r Range) Grows(prev Range) bool {
	return r.Start < prev.Start || r.End > prev.End
}

// FindStart returns the smallest index whose cumulative bottom exceeds
// offset, i.e. the item under the top edge of the viewport. It returns 0 for
// an empty table and when no bottom exceeds offset.
func FindStart(bottoms []float64, offset float64) int {
	i := sort.Search(len(bottoms), func(i int) bool { return bottoms[i] > offset })
	if i == len(bottoms) {
		return 0
	}
	return i
}

// FindEnd returns the index of the item under the bottom edge of a viewport
// that ends at bottom, clamped to the last item. It returns -1 for an empty
// table.
func FindEnd(bottoms []float64, bottom float64) int {
	i := sort.Search(len(bottoms), func(i int) bool { return bottoms[i] >= bottom })
	return min(i, len(bottoms)-1)
}

// RenderRange derives the materialized window from the first visible index.
//
// The window reaches buffer items past the last visible item and twice that
// before the first one, so scrolling back up does not expose items that are
// still unmaterialized when the next pass runs.
func RenderRange(start, capacity, buffer, itemCount int) Range {
	end := min(start+capacity+buffer, itemCount)
	return Range{
		Start: max(end-capacity-2*buffer, 0),
		End:   max(end, 0),
	}
}

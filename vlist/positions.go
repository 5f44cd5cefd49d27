package vlist

import "fmt"

// Measurement is the rendered height of one materialized item.
type Measurement struct {
	Index  int
	Height float64
}

// Positions is the cumulative-bottom table for every item in the list.
//
// bottoms[i] is the offset of the bottom edge of item i measured from the top
// of the content, so height(i) = bottoms[i] - bottoms[i-1] with bottoms[-1]
// taken as 0. New entries are extrapolated from an estimated height and later
// corrected by ApplyMeasured.
type Positions struct {
	estimate float64
	bottoms  []float64
}

// NewPositions returns an empty table that extrapolates new entries with the
// given estimated item height.
func NewPositions(estimate float64) *Positions {
	return &Positions{estimate: estimate}
}

// Len returns the number of cached items.
func (p *Positions) Len() int { return len(p.bottoms) }

// Total returns the content height, or 0 when the table is empty.
func (p *Positions) Total() float64 {
	if len(p.bottoms) == 0 {
		return 0
	}
	return p.bottoms[len(p.bottoms)-1]
}

// Bottom returns the cumulative bottom of item i. Bottom(-1) is 0.
func (p *Positions) Bottom(i int) float64 {
	if i < 0 || len(p.bottoms) == 0 {
		return 0
	}
	if i >= len(p.bottoms) {
		return p.Total()
	}
	return p.bottoms[i]
}

// Top returns the offset of the top edge of item i.
func (p *Positions) Top(i int) float64 { return p.Bottom(i - 1) }

// Height returns the cached height of item i.
func (p *Positions) Height(i int) float64 {
	if i < 0 || i >= len(p.bottoms) {
		return 0
	}
	return p.bottoms[i] - p.Bottom(i-1)
}

// Bottoms exposes the table for searching. Callers must not modify it.
func (p *Positions) Bottoms() []float64 { return p.bottoms }

// Reconcile resizes the table to itemCount entries.
//
// Growth appends entries extrapolated from the last bottom. Shrinking assumes
// the list dropped a prefix: the first removed entries are discarded and the
// rest are rebased onto the new origin. removed is the number of dropped
// entries and shift the content height they occupied.
func (p *Positions) Reconcile(itemCount int) (removed int, shift float64) {
	n := len(p.bottoms)
	switch {
	case itemCount > n:
		bottom := p.Total()
		for i := n; i < itemCount; i++ {
			bottom += p.estimate
			p.bottoms = append(p.bottoms, bottom)
		}
	case itemCount < n:
		removed = n - itemCount
		shift = p.bottoms[removed-1]
		kept := p.bottoms[:itemCount]
		copy(kept, p.bottoms[removed:])
		for i := range kept {
			kept[i] -= shift
		}
		p.bottoms = kept
	}
	return removed, shift
}

// ApplyMeasured corrects the table with the measured heights of a contiguous
// run of items.
//
// Each item in the run absorbs the running sum of the deltas up to and
// including itself; every item after the run absorbs the full sum, which
// keeps their cached heights unchanged. A run that ends at the last item,
// the common case for a pinned list, costs O(len(ms)).
func (p *Positions) ApplyMeasured(ms []Measurement) error {
	if len(ms) == 0 {
		return nil
	}
	first := ms[0].Index
	for i, m := range ms {
		if m.Index < 0 || m.Index >= len(p.bottoms) {
			return fmt.Errorf("%w: index %d, %d items", ErrIndexOutOfRange, m.Index, len(p.bottoms))
		}
		if m.Index != first+i {
			return fmt.Errorf("%w: index %d follows %d", ErrNonContiguous, m.Index, first+i-1)
		}
		if !(m.Height > 0) {
			return fmt.Errorf("%w: index %d height %v", ErrInvalidHeight, m.Index, m.Height)
		}
	}

	// Deltas are taken against the pre-correction table, so compute them
	// before mutating anything.
	deltas := make([]float64, len(ms))
	for i, m := range ms {
		deltas[i] = m.Height - p.Height(m.Index)
	}

	var sum float64
	for i, m := range ms {
		sum += deltas[i]
		p.bottoms[m.Index] += sum
	}
	if sum == 0 {
		return nil
	}
	for i := first + len(ms); i < len(p.bottoms); i++ {
		p.bottoms[i] += sum
	}
	return nil
}

package vlist

// Seen tracks the furthest item the user has actually looked at and derives
// the number of newer items that have not been seen.
type Seen struct {
	end    int
	last   int
	notify func(int)
}

// NewSeen returns a tracker that reports unseen-count changes to notify.
// notify may be nil.
func NewSeen(notify func(int)) *Seen {
	return &Seen{notify: notify}
}

// End returns the highest index reported visible.
func (s *Seen) End() int { return s.end }

// Last returns the most recently emitted unseen count.
func (s *Seen) Last() int { return s.last }

// Observe records that index intersected the viewport.
func (s *Seen) Observe(index int) {
	if index > s.end {
		s.end = index
	}
}

// Truncate rebases the seen end after removed items were dropped from the
// front of the list.
func (s *Seen) Truncate(removed int) {
	s.end = max(s.end-removed, 0)
}

// Count derives the unseen count for the given list state.
func (s *Seen) Count(itemCount int, pinned bool) int {
	if pinned {
		return 0
	}
	return max(itemCount-1-s.end, 0)
}

// Refresh recomputes the unseen count and notifies when it changed.
func (s *Seen) Refresh(itemCount int, pinned bool) (count int, changed bool) {
	return s.emit(s.Count(itemCount, pinned))
}

// Reset forces the unseen count to zero, as happens on every pin.
func (s *Seen) Reset() bool {
	_, changed := s.emit(0)
	return changed
}

func (s *Seen) emit(count int) (int, bool) {
	if count == s.last {
		return count, false
	}
	s.last = count
	if s.notify != nil {
		s.notify(count)
	}
	return count, true
}

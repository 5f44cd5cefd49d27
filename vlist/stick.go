package vlist

const (
	// DefaultStickEpsilon is how close to the end of the content the viewport
	// bottom must come for a scroll to re-pin the list.
	DefaultStickEpsilon = 10

	// BottomMargin is added to the content height when forcing a scroll to
	// the bottom so the request overshoots any pending height growth. The
	// scroll surface clamps it.
	BottomMargin = 1e6
)

// Transition is the outcome of a stick evaluation.
type Transition int

const (
	StickUnchanged Transition = iota
	StickPinned
	StickUnpinned
)

func (t Transition) String() string {
	switch t {
	case StickPinned:
		return "pinned"
	case StickUnpinned:
		return "unpinned"
	default:
		return "unchanged"
	}
}

// ScrollObservation is one scroll event as seen by the stick controller.
type ScrollObservation struct {
	PrevOffset   float64
	Offset       float64
	PrevViewport float64 // viewport height before the event
	Viewport     float64 // viewport height re-read at the event
	Total        float64 // content height
}

// Stick is the stick-to-bottom state machine.
//
// A list starts pinned. A genuine scroll up unpins it; scrolling back to
// within epsilon of the end, emptying the list, or an explicit request
// pins it again. While a resize is settling, changeEnabled is false and
// scroll events cannot change the state, because resize-induced offset jumps
// look exactly like a user scrolling up.
type Stick struct {
	epsilon       float64
	pinned        bool
	changeEnabled bool
}

// NewStick returns a pinned controller with changes enabled.
func NewStick(epsilon float64) *Stick {
	return &Stick{epsilon: epsilon, pinned: true, changeEnabled: true}
}

// Pinned reports whether the view follows the newest item.
func (s *Stick) Pinned() bool { return s.pinned }

// ChangeEnabled reports whether scroll events may change the state.
func (s *Stick) ChangeEnabled() bool { return s.changeEnabled }

// Suspend blocks scroll-driven transitions until Resume.
func (s *Stick) Suspend() { s.changeEnabled = false }

// Resume re-allows scroll-driven transitions.
func (s *Stick) Resume() { s.changeEnabled = true }

// Pin forces the pinned state. The caller must apply the scroll correction
// and reset the unseen counter regardless of the returned transition.
func (s *Stick) Pin() Transition {
	if s.pinned {
		return StickUnchanged
	}
	s.pinned = true
	return StickPinned
}

// Observe evaluates a scroll event. Re-pinning is checked before unpinning,
// so a small upward scroll that stays near the end still unpins.
func (s *Stick) Observe(o ScrollObservation) Transition {
	if !s.changeEnabled {
		return StickUnchanged
	}
	result := StickUnchanged
	if !s.pinned && o.Total-o.Offset <= o.Viewport+s.epsilon {
		s.pinned = true
		result = StickPinned
	}
	if o.PrevOffset > o.Offset && o.PrevViewport == o.Viewport {
		s.pinned = false
		if result == StickPinned {
			return StickUnchanged
		}
		return StickUnpinned
	}
	return result
}

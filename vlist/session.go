package vlist

import (
	"fmt"

	"pkt.systems/pslog"
)

// Frame is what the host needs to materialize one render pass.
type Frame struct {
	Range       Range
	OffsetTop   float64 // content offset of the top edge of Range.Start
	TotalHeight float64
}

// Session owns all windowing state for one list instance.
//
// Every method must be called from the host's event loop. Host events
// (scroll, resize, visibility, timers) only update state; the host then runs
// Settle (or Update/render/Commit) to obtain the next frame.
type Session struct {
	cfg  Config
	prov Providers
	log  pslog.Logger

	pos     *Positions
	stick   *Stick
	seen    *Seen
	resizer *Resizer
	scroll  *Limiter

	itemCount    int
	offset       float64
	visibleStart int
	rng          Range

	// remeasureDue is set when new items entered the window or the container
	// changed size; the next Commit measures the materialized items.
	remeasureDue bool

	// err holds a failure from a timer-driven remeasure until the next Commit.
	err error

	unsubs []func()
	closed bool
}

// NewSession validates cfg and p, subscribes to the providers and returns a
// pinned, empty session.
func NewSession(cfg Config, p Providers, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:   cfg,
		prov:  p,
		log:   discardLogger(),
		pos:   NewPositions(cfg.EstimatedItemHeight),
		stick: NewStick(cfg.StickEpsilon),
		seen:  NewSeen(cfg.OnUnseenCountChange),
	}
	for _, o := range opts {
		o(s)
	}
	s.resizer = NewResizer(cfg.EstimatedItemHeight, p.Scheduler, s.stick, s.remeasureLater)
	s.resizer.Reset(p.Surface.Viewport())
	s.scroll = NewThrottle(p.Scheduler, ScrollWait, Both, s.handleScroll)
	s.offset = p.Surface.ScrollOffset()

	s.unsubs = append(s.unsubs,
		p.Surface.ObserveScroll(s.onScroll),
		p.Visibility.ObserveVisibility(s.onVisibility),
		p.Resize.ObserveResize(s.onResize),
	)
	return s, nil
}

// ---------------------------------------------------------------------------
// Render cycle
// ---------------------------------------------------------------------------

// Update reconciles the session with the current item count and returns the
// frame to render.
func (s *Session) Update(itemCount int) (Frame, error) {
	if s.closed {
		return Frame{}, ErrClosed
	}
	if itemCount < 0 {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidItemCount, itemCount)
	}

	grew := itemCount > s.pos.Len()
	removed, shift := s.pos.Reconcile(itemCount)
	s.itemCount = itemCount
	if removed > 0 {
		s.truncated(removed, shift)
	}

	switch {
	case itemCount == 0:
		s.pin()
	case s.stick.Pinned() && (grew || removed > 0):
		s.scrollToEnd()
	}

	s.window()
	s.seen.Refresh(s.itemCount, s.stick.Pinned())
	return s.Frame(), nil
}

// Commit runs after the host rendered a frame. It remeasures the
// materialized items when new ones appeared or the container changed and
// reports whether the frame moved, in which case the host must render again.
func (s *Session) Commit() (dirty bool, err error) {
	if s.closed {
		return false, ErrClosed
	}
	if s.err != nil {
		err, s.err = s.err, nil
		return false, err
	}
	if !s.remeasureDue {
		return false, nil
	}
	s.remeasureDue = false

	prev := s.Frame()
	if err := s.remeasure(); err != nil {
		return false, err
	}
	s.window()
	return s.Frame() != prev, nil
}

// Settle runs Update, render and Commit until the frame stops moving. For
// static input it converges within MaxSettlePasses; past that the last
// rendered frame is returned together with ErrNoConvergence and the pending
// correction carries over to the next Settle.
func (s *Session) Settle(itemCount int, render func(Frame) error) (Frame, int, error) {
	var f Frame
	for pass := 1; pass <= MaxSettlePasses; pass++ {
		var err error
		if f, err = s.Update(itemCount); err != nil {
			return f, pass, err
		}
		if err := render(f); err != nil {
			return f, pass, fmt.Errorf("vlist: render: %w", err)
		}
		dirty, err := s.Commit()
		if err != nil {
			return f, pass, err
		}
		if !dirty {
			return f, pass, nil
		}
	}

	f, err := s.Update(itemCount)
	if err != nil {
		return f, MaxSettlePasses, err
	}
	if err := render(f); err != nil {
		return f, MaxSettlePasses, fmt.Errorf("vlist: render: %w", err)
	}
	s.remeasureDue = true
	s.log.Warn("vlist settle did not converge", "passes", MaxSettlePasses, "start", f.Range.Start, "end", f.Range.End)
	return f, MaxSettlePasses, ErrNoConvergence
}

// Invalidate reports that materialized items changed their content in place,
// so the next Commit measures them again.
func (s *Session) Invalidate() {
	if s.closed {
		return
	}
	s.remeasureDue = true
}

// ScrollToBottom pins the list and scrolls to the newest item.
func (s *Session) ScrollToBottom() {
	if s.closed {
		return
	}
	s.pin()
	s.window()
}

// Close cancels timers and releases every provider subscription. It is safe
// to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.scroll.Cancel()
	s.resizer.Stop()
	for _, unsub := range s.unsubs {
		if unsub != nil {
			unsub()
		}
	}
	s.unsubs = nil
	return nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Frame returns the current frame without recomputing anything.
func (s *Session) Frame() Frame {
	return Frame{
		Range:       s.rng,
		OffsetTop:   s.pos.Top(s.rng.Start),
		TotalHeight: s.pos.Total(),
	}
}

func (s *Session) Range() Range             { return s.rng }
func (s *Session) Pinned() bool             { return s.stick.Pinned() }
func (s *Session) UnseenCount() int         { return s.seen.Last() }
func (s *Session) SeenEnd() int             { return s.seen.End() }
func (s *Session) Capacity() int            { return s.resizer.Capacity() }
func (s *Session) ItemCount() int           { return s.itemCount }
func (s *Session) VisibleStart() int        { return s.visibleStart }
func (s *Session) Positions() *Positions    { return s.pos }
func (s *Session) StickChangeEnabled() bool { return s.stick.ChangeEnabled() }

// ---------------------------------------------------------------------------
// Host events
// ---------------------------------------------------------------------------

func (s *Session) onScroll() {
	if s.closed {
		return
	}
	s.scroll.Call()
}

func (s *Session) handleScroll() {
	prev := s.offset
	prevHeight := s.resizer.Size().Height
	s.offset = s.prov.Surface.ScrollOffset()
	vp := s.prov.Surface.Viewport()
	s.resizer.SetHeight(vp.Height)

	switch s.stick.Observe(ScrollObservation{
		PrevOffset:   prev,
		Offset:       s.offset,
		PrevViewport: prevHeight,
		Viewport:     vp.Height,
		Total:        s.pos.Total(),
	}) {
	case StickPinned:
		s.log.Debug("vlist pinned", "reason", "scroll", "offset", s.offset)
		s.seen.Reset()
		s.scrollToEnd()
		return
	case StickUnpinned:
		s.log.Debug("vlist unpinned", "offset", s.offset, "prev_offset", prev)
		s.seen.Refresh(s.itemCount, false)
	}
	s.visibleStart = FindStart(s.pos.Bottoms(), s.offset)
}

func (s *Session) onVisibility(entries []VisibilityEntry) error {
	if s.closed {
		return ErrClosed
	}
	for _, e := range entries {
		if e.Index < 0 || e.Index >= s.itemCount {
			return fmt.Errorf("%w: visible index %d, %d items", ErrIndexOutOfRange, e.Index, s.itemCount)
		}
		if e.Intersecting {
			s.seen.Observe(e.Index)
		}
	}
	s.seen.Refresh(s.itemCount, s.stick.Pinned())
	return nil
}

func (s *Session) onResize(sz Size) {
	if s.closed {
		return
	}
	res := s.resizer.Apply(sz)
	if res.HeightChanged {
		s.offset = s.prov.Surface.ScrollOffset()
	}
	s.remeasureDue = true
	s.log.Trace("vlist resize", "width", sz.Width, "height", sz.Height, "capacity", res.Capacity)
}

// remeasureLater is the trailing edge of the width-change throttle.
func (s *Session) remeasureLater() {
	if s.closed {
		return
	}
	if err := s.remeasure(); err != nil && s.err == nil {
		s.err = err
	}
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *Session) remeasure() error {
	ms, err := s.prov.Measurer.Measure()
	if err != nil {
		return fmt.Errorf("vlist: measure: %w", err)
	}
	if len(ms) > 0 {
		if err := s.pos.ApplyMeasured(ms); err != nil {
			return fmt.Errorf("vlist: apply measurements: %w", err)
		}
		s.log.Trace("vlist remeasured", "first", ms[0].Index, "count", len(ms), "total", s.pos.Total())
	}

	s.offset = s.prov.Surface.ScrollOffset()
	if s.stick.Pinned() {
		s.scrollToEnd()
		return nil
	}
	s.visibleStart = FindStart(s.pos.Bottoms(), s.offset)
	return nil
}

// window derives the render range from the first visible item, keeps every
// visible item (and the newest one while pinned) inside it and flags a
// remeasure when items outside the previous range are materialized.
func (s *Session) window() {
	rng := RenderRange(s.visibleStart, s.resizer.Capacity(), s.cfg.BufferSize, s.itemCount)
	// Capacity counts estimated heights; measured items shorter than the
	// estimate leave more of them on screen.
	last := FindEnd(s.pos.Bottoms(), s.offset+s.resizer.Size().Height)
	rng.End = max(rng.End, min(last+1, s.itemCount))
	if s.stick.Pinned() {
		rng.End = s.itemCount
	}
	if rng.Grows(s.rng) {
		s.remeasureDue = true
	}
	s.rng = rng
}

// truncated rebases scroll and seen state after removed items were dropped
// from the front, keeping the displayed items in place.
func (s *Session) truncated(removed int, shift float64) {
	s.seen.Truncate(removed)
	surface := s.prov.Surface
	surface.ScrollTo(surface.ScrollOffset() - shift)
	s.offset = surface.ScrollOffset()
	s.visibleStart = FindStart(s.pos.Bottoms(), s.offset)
	// Indices shifted under the previous range; compare against an empty
	// range so the surviving items are measured again.
	s.rng = Range{}
	s.log.Debug("vlist truncated", "removed", removed, "shift", shift, "items", s.itemCount)
}

func (s *Session) pin() {
	if s.stick.Pin() == StickPinned {
		s.log.Debug("vlist pinned", "reason", "request", "items", s.itemCount)
	}
	s.seen.Reset()
	s.scrollToEnd()
}

func (s *Session) scrollToEnd() {
	surface := s.prov.Surface
	surface.ScrollTo(s.pos.Total() + BottomMargin)
	s.offset = surface.ScrollOffset()
	s.visibleStart = FindStart(s.pos.Bottoms(), s.offset)
}

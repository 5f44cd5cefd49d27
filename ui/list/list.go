// Package list provides a virtualized, line-scrolled list widget for
// bubbletea v2. Only the window of items chosen by a vlist.Session is
// rendered; item heights are measured from the rendered output and the view
// sticks to the newest item until the user scrolls away.
//
// Key properties:
//   - Per-item render cache, invalidated on width or content-version changes.
//   - Line-based scroll offset, clamped to the content height reported by the
//     session's position table.
//   - Gap lines after each item are part of its measured height.
//   - Session timers (scroll throttle, resize guard, remeasure) run as
//     tea.Tick commands and come back through Update as TimerMsg.
package list

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"pkt.systems/pslog"

	"github.com/miosa/osa-vlist/ui/common"
	"github.com/miosa/osa-vlist/vlist"
)

// ---------------------------------------------------------------------------
// Public interfaces
// ---------------------------------------------------------------------------

// Item is anything the list can render.
type Item interface {
	// ID returns a unique, stable identifier used for cache keying.
	ID() string

	// ContentVersion changes whenever the rendered output of the item would
	// change for the same width.
	ContentVersion() int

	// Render returns the rendered string for the given width.
	Render(width int) string
}

// Source resolves an item index to its item. It is called only for the
// materialized window.
type Source func(index int) Item

// ErrMissingItem is returned when the Source has no item for an index inside
// the current item count.
var ErrMissingItem = errors.New("list: source returned no item")

// UnseenMsg reports that the number of items appended since the user last
// saw the end of the list changed.
type UnseenMsg struct {
	ID    int64
	Count int
}

// ErrMsg carries a failure from a timer-driven render pass.
type ErrMsg struct {
	ID  int64
	Err error
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithWidth sets the initial viewport width, scrollbar column included.
func WithWidth(w int) Option {
	return func(m *Model) { m.h.width = w }
}

// WithHeight sets the initial viewport height in terminal lines.
func WithHeight(h int) Option {
	return func(m *Model) { m.h.height = h }
}

// WithGap sets the number of blank lines rendered after each item.
func WithGap(g int) Option {
	return func(m *Model) {
		if g >= 0 {
			m.h.gap = g
		}
	}
}

// WithBufferSize sets how many items are materialized past the viewport.
func WithBufferSize(n int) Option {
	return func(m *Model) { m.cfg.BufferSize = n }
}

// WithEstimatedHeight sets the line height assumed for unmeasured items. An
// estimate no larger than the smallest item keeps the viewport covered.
func WithEstimatedHeight(h float64) Option {
	return func(m *Model) { m.cfg.EstimatedItemHeight = h }
}

// WithStickEpsilon sets how many lines from the end a scroll re-pins the list.
func WithStickEpsilon(lines float64) Option {
	return func(m *Model) { m.cfg.StickEpsilon = lines }
}

// WithScrollbar toggles the scrollbar column.
func WithScrollbar(on bool) Option {
	return func(m *Model) { m.h.scrollbar = on }
}

// WithLogger sets the logger shared with the windowing session.
func WithLogger(l pslog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is a virtualized scrollable list. Copies share state, so the value
// returned by Update and the one held by the caller stay interchangeable.
// The zero value is not usable; construct with New.
type Model struct {
	id   int64
	cfg  vlist.Config
	log  pslog.Logger
	h    *host
	sess *vlist.Session
}

// New constructs a Model over src. The list starts empty and pinned.
func New(src Source, opts ...Option) (Model, error) {
	m := Model{
		id:  idCounter.Add(1),
		cfg: vlist.DefaultConfig(),
		log: pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true, MinLevel: pslog.ErrorLevel}),
		h: &host{
			source:    src,
			scrollbar: true,
			cache:     make(map[string]cachedRender),
			visible:   make(map[int]bool),
			scrollObs: make(map[int]func()),
			resizeObs: make(map[int]func(vlist.Size)),
			visObs:    make(map[int]func([]vlist.VisibilityEntry) error),
		},
	}
	m.cfg.EstimatedItemHeight = 2
	m.cfg.StickEpsilon = 1
	for _, o := range opts {
		o(&m)
	}
	m.h.sched = newScheduler(m.id)

	id := m.id
	m.cfg.OnUnseenCountChange = func(n int) {
		m.h.sched.queue(func() tea.Msg { return UnseenMsg{ID: id, Count: n} })
	}
	sess, err := vlist.NewSession(m.cfg, vlist.Providers{
		Surface:    m.h,
		Measurer:   m.h,
		Visibility: m.h,
		Resize:     m.h,
		Scheduler:  m.h.sched,
	}, vlist.WithLogger(m.log))
	if err != nil {
		return Model{}, fmt.Errorf("list: new session: %w", err)
	}
	m.sess = sess
	m.h.total = func() float64 { return sess.Positions().Total() }
	if err := m.settle(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// ID identifies the list in the messages it emits.
func (m Model) ID() int64 { return m.id }

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetCount sets the number of items and renders the new window. A smaller
// count means items were dropped from the front.
func (m *Model) SetCount(n int) error {
	if n < m.h.count {
		// Indices were rebased, old visibility no longer applies.
		m.h.visible = make(map[int]bool)
	}
	m.h.count = n
	return m.settle()
}

// SetSource replaces the item source, for example after switching the
// rendering mode, and remeasures the window.
func (m *Model) SetSource(src Source) error {
	m.h.source = src
	m.h.cache = make(map[string]cachedRender)
	m.sess.Invalidate()
	return m.settle()
}

// SetSize updates the viewport dimensions and publishes the new size to the
// session.
func (m *Model) SetSize(w, h int) error {
	if w == m.h.width && h == m.h.height {
		return nil
	}
	m.h.width = w
	m.h.height = h
	m.h.offset = m.h.clamp(m.h.offset)
	m.h.notifyResize()
	return m.settle()
}

// InvalidateCache forces all cached renders to be discarded.
func (m *Model) InvalidateCache() {
	m.h.cache = make(map[string]cachedRender)
	m.sess.Invalidate()
}

// Close releases the session's timers and subscriptions.
func (m *Model) Close() error {
	return m.sess.Close()
}

// ---------------------------------------------------------------------------
// Scroll
// ---------------------------------------------------------------------------

// ScrollDown scrolls the content down by lines lines.
func (m *Model) ScrollDown(lines int) error { return m.scrollBy(lines) }

// ScrollUp scrolls the content up by lines lines.
func (m *Model) ScrollUp(lines int) error { return m.scrollBy(-lines) }

// PageDown scrolls down by one full viewport height.
func (m *Model) PageDown() error { return m.scrollBy(m.h.height) }

// PageUp scrolls up by one full viewport height.
func (m *Model) PageUp() error { return m.scrollBy(-m.h.height) }

// HalfPageDown scrolls down by half the viewport height.
func (m *Model) HalfPageDown() error { return m.scrollBy(m.h.height / 2) }

// HalfPageUp scrolls up by half the viewport height.
func (m *Model) HalfPageUp() error { return m.scrollBy(-m.h.height / 2) }

// ScrollToTop scrolls to the first line like a user would.
func (m *Model) ScrollToTop() error { return m.scrollBy(-m.h.offset) }

// ScrollToBottom pins the list to the newest item and clears the unseen
// count.
func (m *Model) ScrollToBottom() error {
	m.sess.ScrollToBottom()
	return m.settle()
}

func (m *Model) scrollBy(lines int) error {
	next := m.h.clamp(m.h.offset + lines)
	if next == m.h.offset {
		return nil
	}
	m.h.offset = next
	m.h.notifyScroll()
	return m.settle()
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Pinned reports whether the view follows the newest item.
func (m Model) Pinned() bool { return m.sess.Pinned() }

// Unseen returns the number of items appended since the end was last seen.
func (m Model) Unseen() int { return m.sess.UnseenCount() }

// Offset returns the scroll offset in lines.
func (m Model) Offset() int { return m.h.offset }

// Frame returns the window rendered last.
func (m Model) Frame() vlist.Frame { return m.h.frame }

// Count returns the current item count.
func (m Model) Count() int { return m.h.count }

// Visible returns the indices of the items intersecting the viewport in
// ascending order.
func (m Model) Visible() []int {
	return sortedKeys(m.h.visible)
}

// AtBottom reports whether the last line of content is in view.
func (m Model) AtBottom() bool {
	return m.h.offset >= m.h.maxOffset()
}

// ---------------------------------------------------------------------------
// Update (bubbletea)
// ---------------------------------------------------------------------------

// Update handles session timers and mouse wheel events. Callers forward
// whichever tea.Msg events they want the list to respond to.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var err error
	switch msg := msg.(type) {
	case TimerMsg:
		if msg.ID == m.id && m.h.sched.fire(msg.Seq) {
			err = m.settle()
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			err = m.ScrollUp(3)
		case tea.MouseWheelDown:
			err = m.ScrollDown(3)
		}
	}
	if err != nil {
		id := m.id
		m.h.sched.queue(func() tea.Msg { return ErrMsg{ID: id, Err: err} })
	}
	return m, m.Cmd()
}

// PendingTimers returns a TimerMsg for every session timer that has not
// fired yet. Delivering them through Update fast-forwards the list, which
// headless hosts and tests use instead of waiting on tea.Tick.
func (m Model) PendingTimers() []TimerMsg {
	return m.h.sched.due()
}

// Cmd drains the commands queued by the last operations: session timers and
// unseen-count notifications. Callers that mutate the list directly must
// return it to the runtime.
func (m Model) Cmd() tea.Cmd {
	return m.h.sched.drain()
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View cuts the viewport out of the rendered window.
func (m Model) View() string {
	h := m.h
	if h.width <= 0 || h.height <= 0 {
		return ""
	}
	w := h.contentWidth()
	top := int(math.Round(h.frame.OffsetTop))

	var block []string
	for _, r := range h.rendered {
		block = append(block, r.lines...)
	}
	// Estimated heights can still sit above an unsettled window; a pinned
	// list draws its newest line on the last row regardless.
	if m.sess.Pinned() && h.frame.Range.End == h.count && len(block) >= h.height {
		top = h.offset + h.height - len(block)
	}

	lines := make([]string, h.height)
	for y := range lines {
		line := ""
		if i := h.offset + y - top; i >= 0 && i < len(block) {
			line = block[i]
		}
		lines[y] = padLine(line, w)
	}
	body := strings.Join(lines, "\n")
	if !h.scrollbar || w == h.width {
		return body
	}
	bar := common.Scrollbar(h.height, int(math.Ceil(h.frame.TotalHeight)), h.offset)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
}

// ---------------------------------------------------------------------------
// Render cycle
// ---------------------------------------------------------------------------

// settle runs the session's render loop and reports visibility for the
// final frame.
func (m *Model) settle() error {
	f, passes, err := m.sess.Settle(m.h.count, m.h.render)
	switch {
	case errors.Is(err, vlist.ErrNoConvergence):
		// The session keeps the pending correction for the next pass.
	case err != nil:
		return err
	}
	m.log.Trace("list settled", "passes", passes, "start", f.Range.Start, "end", f.Range.End, "offset", m.h.offset)
	return m.h.reportVisibility()
}

// padLine clips line to width and pads it with spaces.
func padLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	line = ansi.Truncate(line, width, "")
	if n := ansi.StringWidth(line); n < width {
		line += strings.Repeat(" ", width-n)
	}
	return line
}

// splitLines splits a rendered string into individual lines.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

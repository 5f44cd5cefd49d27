package vlist

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeScheduler is a manual clock. Callbacks run only from Advance.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	t := &fakeTimer{at: s.now + d, seq: s.seq, f: f}
	s.seq++
	s.timers = append(s.timers, t)
	return func() bool {
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance moves the clock forward, running due callbacks in deadline order.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.next(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = target
}

func (s *fakeScheduler) next(limit time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// Pending returns the number of armed timers.
func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeHost implements every provider over a session's own position table,
// the way a browser lays out the materialized items.
type fakeHost struct {
	sess   *Session
	offset float64
	size   Size

	height   func(index int) float64
	rendered Range
	visible  map[int]bool

	measureErr error
	measureFn  func(Range) []Measurement

	nextID    int
	scrollFns map[int]func()
	visFns    map[int]func([]VisibilityEntry) error
	resizeFns map[int]func(Size)
}

func newFakeHost(size Size, height func(int) float64) *fakeHost {
	return &fakeHost{
		size:      size,
		height:    height,
		visible:   map[int]bool{},
		scrollFns: map[int]func(){},
		visFns:    map[int]func([]VisibilityEntry) error{},
		resizeFns: map[int]func(Size){},
	}
}

func (h *fakeHost) providers(sched Scheduler) Providers {
	return Providers{Surface: h, Measurer: h, Visibility: h, Resize: h, Scheduler: sched}
}

func (h *fakeHost) total() float64 {
	if h.sess == nil {
		return 0
	}
	return h.sess.Positions().Total()
}

func (h *fakeHost) clamp(off float64) float64 {
	return min(max(off, 0), max(h.total()-h.size.Height, 0))
}

func (h *fakeHost) ScrollOffset() float64   { return h.offset }
func (h *fakeHost) ScrollTo(offset float64) { h.offset = h.clamp(offset) }
func (h *fakeHost) Viewport() Size          { return h.size }

func (h *fakeHost) ObserveScroll(fn func()) func() {
	id := h.id()
	h.scrollFns[id] = fn
	return func() { delete(h.scrollFns, id) }
}

func (h *fakeHost) ObserveVisibility(fn func([]VisibilityEntry) error) func() {
	id := h.id()
	h.visFns[id] = fn
	return func() { delete(h.visFns, id) }
}

func (h *fakeHost) ObserveResize(fn func(Size)) func() {
	id := h.id()
	h.resizeFns[id] = fn
	return func() { delete(h.resizeFns, id) }
}

func (h *fakeHost) Measure() ([]Measurement, error) {
	if h.measureErr != nil {
		return nil, h.measureErr
	}
	if h.measureFn != nil {
		return h.measureFn(h.rendered), nil
	}
	ms := make([]Measurement, 0, h.rendered.Len())
	for i := h.rendered.Start; i < h.rendered.End; i++ {
		ms = append(ms, Measurement{Index: i, Height: h.height(i)})
	}
	return ms, nil
}

func (h *fakeHost) subscriptions() int {
	return len(h.scrollFns) + len(h.visFns) + len(h.resizeFns)
}

func (h *fakeHost) id() int {
	h.nextID++
	return h.nextID
}

func (h *fakeHost) render(f Frame) error {
	h.rendered = f.Range
	return nil
}

// UserScroll moves the viewport like a wheel or scrollbar drag would.
func (h *fakeHost) UserScroll(offset float64) {
	h.offset = h.clamp(offset)
	for _, fn := range h.scrollFns {
		fn()
	}
}

// Resize changes the viewport size; growing the viewport past the end of the
// content pulls the offset back.
func (h *fakeHost) Resize(sz Size) {
	h.size = sz
	h.offset = h.clamp(h.offset)
	for _, fn := range h.resizeFns {
		fn(sz)
	}
}

// ReportVisibility delivers intersection transitions for the rendered items.
func (h *fakeHost) ReportVisibility() error {
	pos := h.sess.Positions()
	var entries []VisibilityEntry
	now := map[int]bool{}
	for i := h.rendered.Start; i < h.rendered.End; i++ {
		if pos.Bottom(i) > h.offset && pos.Top(i) < h.offset+h.size.Height {
			now[i] = true
		}
	}
	// Items that left the rendered range are unobserved, not reported.
	for i := range h.visible {
		if !now[i] && h.rendered.Contains(i) {
			entries = append(entries, VisibilityEntry{Index: i})
		}
	}
	for i := range now {
		if !h.visible[i] {
			entries = append(entries, VisibilityEntry{Index: i, Intersecting: true})
		}
	}
	h.visible = now
	if len(entries) == 0 {
		return nil
	}
	for _, fn := range h.visFns {
		if err := fn(entries); err != nil {
			return err
		}
	}
	return nil
}

// settle runs a full render cycle and reports visibility afterwards.
func (h *fakeHost) settle(t *testing.T, itemCount int) Frame {
	t.Helper()
	f, _, err := h.sess.Settle(itemCount, h.render)
	require.NoError(t, err)
	require.NoError(t, h.ReportVisibility())
	return f
}

func uniform(height float64) func(int) float64 {
	return func(int) float64 { return height }
}

type testList struct {
	host   *fakeHost
	sched  *fakeScheduler
	sess   *Session
	unseen []int
}

func newTestList(t *testing.T, cfg Config, size Size, height func(int) float64, opts ...Option) *testList {
	t.Helper()
	tl := &testList{host: newFakeHost(size, height), sched: &fakeScheduler{}}
	cfg.OnUnseenCountChange = func(n int) { tl.unseen = append(tl.unseen, n) }
	sess, err := NewSession(cfg, tl.host.providers(tl.sched), opts...)
	require.NoError(t, err)
	tl.host.sess = sess
	tl.sess = sess
	t.Cleanup(func() { _ = sess.Close() })
	return tl
}

// logCapture collects pslog JSON lines.
type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) entries(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(c.buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		out = append(out, entry)
	}
	return out
}

func (c *logCapture) find(t *testing.T, message string) map[string]any {
	t.Helper()
	for _, entry := range c.entries(t) {
		if entry["message"] == message || entry["msg"] == message {
			return entry
		}
	}
	return nil
}

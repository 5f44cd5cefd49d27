package list

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/vlist"
)

// ---------------------------------------------------------------------------
// Test item implementation
// ---------------------------------------------------------------------------

type testItem struct {
	id      string
	content string
	version int
}

func (t testItem) ID() string              { return t.id }
func (t testItem) ContentVersion() int     { return t.version }
func (t testItem) Render(width int) string { return t.content }

// testSource is a growable item slice; indices past its end have no item.
type testSource struct {
	items []Item
}

func (s *testSource) at(i int) Item {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// add appends n items of the given line count.
func (s *testSource) add(n, lines int) int {
	for range n {
		i := len(s.items)
		parts := make([]string, lines)
		for l := range parts {
			parts[l] = fmt.Sprintf("item %d", i)
			if lines > 1 {
				parts[l] = fmt.Sprintf("item %d line %d", i, l)
			}
		}
		s.items = append(s.items, testItem{id: fmt.Sprintf("i%d", i), content: strings.Join(parts, "\n"), version: 1})
	}
	return len(s.items)
}

// newTestList builds a 20x5 content area plus the scrollbar column with
// one-line estimates and no gap.
func newTestList(t *testing.T, src *testSource, opts ...Option) Model {
	t.Helper()
	base := []Option{WithWidth(21), WithHeight(5), WithGap(0), WithEstimatedHeight(1)}
	m, err := New(src.at, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func viewLines(m Model) []string {
	return strings.Split(m.View(), "\n")
}

func pendingSeqs(m Model) []uint64 {
	var seqs []uint64
	for _, tm := range m.PendingTimers() {
		seqs = append(seqs, tm.Seq)
	}
	return seqs
}

// fireAll delivers every pending timer until none is left.
func fireAll(t *testing.T, m Model) Model {
	t.Helper()
	for range 10 {
		seqs := pendingSeqs(m)
		if len(seqs) == 0 {
			return m
		}
		for _, seq := range seqs {
			m, _ = m.Update(TimerMsg{ID: m.ID(), Seq: seq})
		}
	}
	t.Fatal("timers kept rearming")
	return m
}

// ---------------------------------------------------------------------------
// New / options
// ---------------------------------------------------------------------------

func TestNew_EmptyListIsPinned(t *testing.T) {
	m := newTestList(t, &testSource{})
	if !m.Pinned() {
		t.Error("new list should be pinned")
	}
	if m.Unseen() != 0 || m.Count() != 0 {
		t.Errorf("want unseen=0 count=0, got unseen=%d count=%d", m.Unseen(), m.Count())
	}
	lines := viewLines(m)
	if len(lines) != 5 {
		t.Fatalf("empty list View want 5 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 21 {
			t.Errorf("line %d: want width 21, got %d (%q)", i, w, line)
		}
	}
}

func TestNew_IDsAreUnique(t *testing.T) {
	a := newTestList(t, &testSource{})
	b := newTestList(t, &testSource{})
	if a.ID() == b.ID() {
		t.Errorf("two lists share ID %d", a.ID())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New((&testSource{}).at, WithEstimatedHeight(0))
	if !errors.Is(err, vlist.ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig, got %v", err)
	}
}

func TestView_ZeroSize(t *testing.T) {
	m, err := New((&testSource{}).at)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()
	if out := m.View(); out != "" {
		t.Errorf("zero-size View want empty string, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// Sticking to the newest item
// ---------------------------------------------------------------------------

func TestSetCount_PinnedFollowsNewest(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	if err := m.SetCount(src.add(20, 1)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if m.Offset() != 15 {
		t.Errorf("want offset 15, got %d", m.Offset())
	}
	if !m.AtBottom() {
		t.Error("pinned list should be at the bottom")
	}
	if got := m.Frame().Range; got != (vlist.Range{Start: 5, End: 20}) {
		t.Errorf("want range [5,20), got %+v", got)
	}
	lines := viewLines(m)
	if !strings.Contains(lines[0], "item 15") || !strings.Contains(lines[4], "item 19") {
		t.Errorf("want items 15..19 in view, got %q", lines)
	}
	if got := m.Visible(); len(got) != 5 || got[0] != 15 || got[4] != 19 {
		t.Errorf("want visible 15..19, got %v", got)
	}
}

func TestSetCount_MeasuredHeightsKeepBottomInView(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	if err := m.SetCount(src.add(10, 3)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if got := m.Frame().TotalHeight; got != 30 {
		t.Errorf("want measured total 30, got %v", got)
	}
	if m.Offset() != 25 {
		t.Errorf("want offset 25, got %d", m.Offset())
	}
	lines := viewLines(m)
	if !strings.Contains(lines[4], "item 9 line 2") {
		t.Errorf("want last line of the newest item at the bottom, got %q", lines)
	}
}

func TestSetCount_ShortItemsPinnedShowsNewest(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src, WithHeight(10), WithEstimatedHeight(4), WithBufferSize(1))
	if err := m.SetCount(src.add(50, 1)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if !m.Pinned() {
		t.Fatal("list should stay pinned")
	}
	if got := m.Frame().Range.End; got != 50 {
		t.Errorf("pinned window should end at the newest item, got end %d", got)
	}
	lines := viewLines(m)
	if len(lines) != 10 || !strings.Contains(lines[9], "item 49") {
		t.Errorf("want item 49 on the last row, got %q", lines)
	}
}

func TestScrollUp_UnpinsAndCountsUnseen(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	if err := m.SetCount(src.add(20, 1)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if err := m.ScrollUp(5); err != nil {
		t.Fatalf("ScrollUp: %v", err)
	}
	if m.Pinned() {
		t.Fatal("scrolling up should unpin")
	}
	_ = m.Cmd() // drop the scroll throttle tick

	if err := m.SetCount(src.add(3, 1)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if m.Offset() != 10 {
		t.Errorf("unpinned list should keep its offset, got %d", m.Offset())
	}
	if m.Unseen() != 3 {
		t.Errorf("want 3 unseen, got %d", m.Unseen())
	}
	cmd := m.Cmd()
	if cmd == nil {
		t.Fatal("want an unseen notification command")
	}
	msg, ok := cmd().(UnseenMsg)
	if !ok || msg.Count != 3 || msg.ID != m.ID() {
		t.Errorf("want UnseenMsg{%d 3}, got %#v", m.ID(), msg)
	}
}

func TestScrollToBottom_RepinsAndClearsUnseen(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	_ = m.ScrollUp(5)
	_ = m.SetCount(src.add(3, 1))
	_ = m.Cmd()

	if err := m.ScrollToBottom(); err != nil {
		t.Fatalf("ScrollToBottom: %v", err)
	}
	if !m.Pinned() || !m.AtBottom() {
		t.Errorf("want pinned at bottom, got pinned=%v offset=%d", m.Pinned(), m.Offset())
	}
	if m.Unseen() != 0 {
		t.Errorf("want 0 unseen, got %d", m.Unseen())
	}
	lines := viewLines(m)
	if !strings.Contains(lines[4], "item 22") {
		t.Errorf("want newest item on the last line, got %q", lines)
	}
}

func TestScrollDown_ToEndRepins(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	_ = m.ScrollToTop()
	m = fireAll(t, m)
	if m.Pinned() || m.Offset() != 0 {
		t.Fatalf("want unpinned at top, got pinned=%v offset=%d", m.Pinned(), m.Offset())
	}
	_ = m.PageDown()
	m = fireAll(t, m)
	_ = m.PageDown()
	m = fireAll(t, m)
	_ = m.PageDown()
	m = fireAll(t, m)
	if !m.Pinned() {
		t.Errorf("reaching the end should pin again, offset=%d", m.Offset())
	}
}

func TestMouseWheel(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	m, _ = m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.Offset() != 12 {
		t.Errorf("wheel up want offset 12, got %d", m.Offset())
	}
	if m.Pinned() {
		t.Error("wheel up should unpin")
	}
	m, _ = m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.Offset() != 15 {
		t.Errorf("wheel down want offset 15, got %d", m.Offset())
	}
}

func TestScroll_ClampsAtEdges(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(3, 1))
	if err := m.ScrollDown(100); err != nil {
		t.Fatalf("ScrollDown: %v", err)
	}
	if m.Offset() != 0 {
		t.Errorf("short content cannot scroll, got offset %d", m.Offset())
	}
	if len(m.h.sched.pending) != 0 {
		t.Error("a no-op scroll should not arm the throttle")
	}
}

// ---------------------------------------------------------------------------
// Timers
// ---------------------------------------------------------------------------

func TestTimerMsg_FiresOnlyForOwnList(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	_ = m.ScrollUp(2)
	seqs := pendingSeqs(m)
	if len(seqs) != 1 {
		t.Fatalf("want one throttle timer, got %d", len(seqs))
	}

	m, _ = m.Update(TimerMsg{ID: m.ID() + 1000, Seq: seqs[0]})
	if len(m.h.sched.pending) != 1 {
		t.Error("foreign timer message must be ignored")
	}
	m, _ = m.Update(TimerMsg{ID: m.ID(), Seq: seqs[0]})
	if len(m.h.sched.pending) != 0 {
		t.Error("timer should be consumed")
	}
}

func TestScheduler_StopAndDrain(t *testing.T) {
	s := newScheduler(7)
	ran := false
	stop := s.AfterFunc(0, func() { ran = true })
	if !stop() {
		t.Error("first stop should report an armed timer")
	}
	if stop() {
		t.Error("second stop should report false")
	}
	if s.fire(1) || ran {
		t.Error("stopped timer must not run")
	}
	if s.drain() == nil {
		t.Error("tick command should still be queued")
	}
	if s.drain() != nil {
		t.Error("drain should empty the queue")
	}
}

// ---------------------------------------------------------------------------
// Resize
// ---------------------------------------------------------------------------

func TestSetSize_RerendersAndGuardsStick(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	if err := m.SetSize(31, 8); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if m.sess.StickChangeEnabled() {
		t.Error("stick changes should be suspended right after a resize")
	}
	for i, line := range viewLines(m) {
		if w := lipgloss.Width(line); w != 31 {
			t.Errorf("line %d: want width 31, got %d", i, w)
		}
	}
	m = fireAll(t, m)
	if !m.sess.StickChangeEnabled() {
		t.Error("stick changes should resume after the guard")
	}
	if !m.Pinned() || !m.AtBottom() {
		t.Errorf("pinned list should stay at the bottom, offset=%d", m.Offset())
	}
}

func TestSetSize_NoopWhenUnchanged(t *testing.T) {
	m := newTestList(t, &testSource{})
	if err := m.SetSize(21, 5); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if len(m.h.sched.pending) != 0 {
		t.Error("unchanged size should not start resize timers")
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func TestView_GapLines(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src, WithHeight(10), WithGap(1), WithEstimatedHeight(2))
	_ = m.SetCount(src.add(3, 1))
	lines := viewLines(m)
	if !strings.Contains(lines[0], "item 0") || strings.TrimSpace(lines[1]) != "" || !strings.Contains(lines[2], "item 1") {
		t.Errorf("want item, gap, item; got %q", lines[:3])
	}
	if got := m.Frame().TotalHeight; got != 6 {
		t.Errorf("gap lines count toward item height: want total 6, got %v", got)
	}
}

func TestView_ClipsWideLines(t *testing.T) {
	src := &testSource{items: []Item{testItem{id: "w", content: strings.Repeat("x", 50), version: 1}}}
	m := newTestList(t, src, WithScrollbar(false))
	_ = m.SetCount(1)
	for i, line := range viewLines(m) {
		if w := lipgloss.Width(line); w != 21 {
			t.Errorf("line %d: want width 21, got %d", i, w)
		}
	}
}

func TestContentVersion_Rerenders(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(2, 1))
	src.items[1] = testItem{id: "i1", content: "changed", version: 2}
	m.InvalidateCache()
	if err := m.SetCount(2); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if !strings.Contains(m.View(), "changed") {
		t.Errorf("want re-rendered item in view, got %q", m.View())
	}
}

func TestSetSource_RemeasuresWindow(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(4, 1))

	tall := &testSource{}
	tall.add(4, 2)
	if err := m.SetSource(tall.at); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	if got := m.Frame().TotalHeight; got != 8 {
		t.Errorf("want remeasured total 8, got %v", got)
	}
	if !strings.Contains(viewLines(m)[4], "item 3 line 1") {
		t.Errorf("want the newest item at the bottom, got %q", viewLines(m))
	}
}

func TestSetCount_MissingItem(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	err := m.SetCount(src.add(2, 1) + 1)
	if !errors.Is(err, ErrMissingItem) {
		t.Errorf("want ErrMissingItem, got %v", err)
	}
}

func TestSetCount_TruncationKeepsView(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(20, 1))
	before := viewLines(m)

	src.items = src.items[5:]
	if err := m.SetCount(len(src.items)); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if m.Count() != 15 {
		t.Errorf("want count 15, got %d", m.Count())
	}
	after := viewLines(m)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("line %d moved: %q -> %q", i, before[i], after[i])
		}
	}
	if m.sess.SeenEnd() != 14 {
		t.Errorf("want seen end rebased to 14, got %d", m.sess.SeenEnd())
	}
}

// ---------------------------------------------------------------------------
// Close
// ---------------------------------------------------------------------------

func TestClose_ReleasesSubscriptions(t *testing.T) {
	src := &testSource{}
	m := newTestList(t, src)
	_ = m.SetCount(src.add(5, 1))
	if m.h.subscriptions() != 3 {
		t.Fatalf("want 3 subscriptions, got %d", m.h.subscriptions())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.h.subscriptions() != 0 {
		t.Errorf("want no subscriptions after Close, got %d", m.h.subscriptions())
	}
	if err := m.SetCount(6); !errors.Is(err, vlist.ErrClosed) {
		t.Errorf("want ErrClosed, got %v", err)
	}
}

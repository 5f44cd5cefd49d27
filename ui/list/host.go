package list

import (
	"fmt"
	"math"
	"sort"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/miosa/osa-vlist/vlist"
)

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

type cachedRender struct {
	lines   []string
	width   int
	version int
}

type renderedItem struct {
	index int
	lines []string
}

// host is the terminal side of a vlist session: it is the scroll surface,
// measures and lays out the materialized items and reports which of them
// intersect the viewport. Models share one host through a pointer.
type host struct {
	width     int
	height    int
	gap       int
	scrollbar bool

	offset int
	count  int
	source Source
	total  func() float64

	cache    map[string]cachedRender
	rendered []renderedItem
	frame    vlist.Frame
	visible  map[int]bool

	nextSub   int
	scrollObs map[int]func()
	resizeObs map[int]func(vlist.Size)
	visObs    map[int]func([]vlist.VisibilityEntry) error

	sched *scheduler
}

// contentWidth is the width available to items; the scrollbar takes one
// column when it fits.
func (h *host) contentWidth() int {
	if h.scrollbar && h.width > 1 {
		return h.width - 1
	}
	return max(h.width, 0)
}

func (h *host) maxOffset() int {
	total := 0.0
	if h.total != nil {
		total = h.total()
	}
	return max(int(math.Ceil(total))-h.height, 0)
}

func (h *host) clamp(offset int) int {
	return min(max(offset, 0), h.maxOffset())
}

// ---------------------------------------------------------------------------
// vlist.ScrollSurface
// ---------------------------------------------------------------------------

func (h *host) ScrollOffset() float64 { return float64(h.offset) }

func (h *host) ScrollTo(offset float64) {
	h.offset = h.clamp(int(math.Round(min(offset, math.MaxInt32))))
}

func (h *host) Viewport() vlist.Size {
	return vlist.Size{Width: float64(h.contentWidth()), Height: float64(max(h.height, 0))}
}

func (h *host) ObserveScroll(fn func()) func() {
	id := h.subscribe()
	h.scrollObs[id] = fn
	return func() { delete(h.scrollObs, id) }
}

func (h *host) notifyScroll() {
	for _, id := range sortedKeys(h.scrollObs) {
		h.scrollObs[id]()
	}
}

// ---------------------------------------------------------------------------
// vlist.ResizeProvider
// ---------------------------------------------------------------------------

func (h *host) ObserveResize(fn func(vlist.Size)) func() {
	id := h.subscribe()
	h.resizeObs[id] = fn
	return func() { delete(h.resizeObs, id) }
}

func (h *host) notifyResize() {
	sz := h.Viewport()
	for _, id := range sortedKeys(h.resizeObs) {
		h.resizeObs[id](sz)
	}
}

// ---------------------------------------------------------------------------
// vlist.MeasurementProvider
// ---------------------------------------------------------------------------

// Measure reports the line count of every materialized item, gap included.
func (h *host) Measure() ([]vlist.Measurement, error) {
	ms := make([]vlist.Measurement, 0, len(h.rendered))
	for _, r := range h.rendered {
		ms = append(ms, vlist.Measurement{Index: r.index, Height: float64(len(r.lines))})
	}
	return ms, nil
}

// ---------------------------------------------------------------------------
// vlist.VisibilityProvider
// ---------------------------------------------------------------------------

func (h *host) ObserveVisibility(fn func([]vlist.VisibilityEntry) error) func() {
	id := h.subscribe()
	h.visObs[id] = fn
	return func() { delete(h.visObs, id) }
}

// reportVisibility lays the rendered items out from the frame's top offset
// and delivers the items that entered or left the viewport since the last
// report.
func (h *host) reportVisibility() error {
	now := make(map[int]bool)
	y := int(math.Round(h.frame.OffsetTop))
	for _, r := range h.rendered {
		top, bottom := y, y+len(r.lines)
		if bottom > h.offset && top < h.offset+h.height {
			now[r.index] = true
		}
		y = bottom
	}

	var entries []vlist.VisibilityEntry
	for i := range h.visible {
		if !now[i] && h.frame.Range.Contains(i) {
			entries = append(entries, vlist.VisibilityEntry{Index: i})
		}
	}
	for i := range now {
		if !h.visible[i] {
			entries = append(entries, vlist.VisibilityEntry{Index: i, Intersecting: true})
		}
	}
	h.visible = now
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Index < entries[b].Index })
	for _, id := range sortedKeys(h.visObs) {
		if err := h.visObs[id](entries); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// render materializes the items of f. It is the render callback of
// vlist.Session.Settle.
func (h *host) render(f vlist.Frame) error {
	h.frame = f
	h.rendered = h.rendered[:0]
	w := h.contentWidth()
	for i := f.Range.Start; i < f.Range.End; i++ {
		var it Item
		if h.source != nil {
			it = h.source(i)
		}
		if it == nil {
			return fmt.Errorf("%w: index %d of %d", ErrMissingItem, i, h.count)
		}
		h.rendered = append(h.rendered, renderedItem{index: i, lines: h.renderItem(it, w)})
	}
	return nil
}

// renderItem returns the cached or freshly rendered lines for an item,
// clipped to width and followed by the gap lines.
func (h *host) renderItem(item Item, width int) []string {
	id := item.ID()
	ver := item.ContentVersion()
	if cr, ok := h.cache[id]; ok && cr.width == width && cr.version == ver {
		return cr.lines
	}
	content := item.Render(width)
	lines := make([]string, 0, lipgloss.Height(content)+h.gap)
	for _, line := range splitLines(content) {
		lines = append(lines, ansi.Truncate(line, width, ""))
	}
	for range h.gap {
		lines = append(lines, "")
	}
	h.cache[id] = cachedRender{lines: lines, width: width, version: ver}
	return lines
}

func (h *host) subscribe() int {
	h.nextSub++
	return h.nextSub
}

func (h *host) subscriptions() int {
	return len(h.scrollObs) + len(h.resizeObs) + len(h.visObs)
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

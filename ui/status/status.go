// Package status renders the bottom status bar: item count, the rendered
// window, pin state and the stream indicator.
package status

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/style"
)

// Model is the status bar state. Drive it via setter methods; it has no Update loop.
type Model struct {
	count      int
	start, end int
	offset     int
	total      float64
	pinned     bool
	unseen     int
	streaming  bool
	pulse      string
	markdown   bool
	width      int
}

// New returns a Model for a pinned, empty list.
func New() Model {
	return Model{pinned: true}
}

// SetList updates the list figures shown in the bar.
func (m *Model) SetList(count, start, end, offset int, total float64, pinned bool, unseen int) {
	m.count = count
	m.start, m.end = start, end
	m.offset = offset
	m.total = total
	m.pinned = pinned
	m.unseen = unseen
}

// SetStreaming marks the feed as running.
func (m *Model) SetStreaming(on bool) { m.streaming = on }

// SetPulse sets the animated glyph shown in the stream pill.
func (m *Model) SetPulse(glyph string) { m.pulse = glyph }

// SetMarkdown shows the rendering mode.
func (m *Model) SetMarkdown(on bool) { m.markdown = on }

// SetWidth sets the bar width.
func (m *Model) SetWidth(w int) { m.width = w }

// View renders the bar on one line: figures on the left, pills on the right.
func (m Model) View() string {
	left := style.StatusBar.Render(fmt.Sprintf("%s items · window %d–%d · line %d/%d",
		formatCount(m.count), m.start, m.end, m.offset, int(m.total)))

	pills := []string{PinPill(m.pinned)}
	if p := UnseenPill(m.unseen); p != "" {
		pills = append(pills, p)
	}
	if p := StreamPill(m.streaming, m.pulse); p != "" {
		pills = append(pills, p)
	}
	if m.markdown {
		pills = append(pills, style.Faint.Render("md"))
	}
	right := strings.Join(pills, " ") + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// formatCount groups thousands: 12345 → "12,345".
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 || len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Package toast provides auto-dismissing notifications, used for slice and
// eviction notices.
package toast

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/style"
)

// Level classifies toast severity.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

const (
	maxToasts = 3

	// TTL is how long a toast stays visible.
	TTL = 4 * time.Second
)

// ExpireMsg asks the model to prune expired toasts.
type ExpireMsg struct{ At time.Time }

type toast struct {
	message string
	level   Level
	expiry  time.Time
}

// Model manages a queue of toast notifications.
type Model struct {
	queue []toast
	now   func() time.Time
}

// New creates an empty Model.
func New() Model {
	return Model{now: time.Now}
}

// Add enqueues a toast and returns the command that expires it. The oldest
// toast is dropped when more than maxToasts are visible.
func (m *Model) Add(message string, level Level) tea.Cmd {
	m.queue = append(m.queue, toast{
		message: message,
		level:   level,
		expiry:  m.now().Add(TTL),
	})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
	return tea.Tick(TTL, func(t time.Time) tea.Msg { return ExpireMsg{At: t} })
}

// Expire prunes toasts whose deadline is not after now.
func (m *Model) Expire(now time.Time) {
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// Len returns the number of visible toasts.
func (m Model) Len() int { return len(m.queue) }

// View renders visible toasts as right-aligned colored lines.
func (m Model) View(width int) string {
	if len(m.queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.queue))
	for _, t := range m.queue {
		icon, col := iconColor(t.level)
		rendered := lipgloss.NewStyle().Foreground(col).Render(fmt.Sprintf(" %s %s ", icon, t.message))
		pad := max(width-lipgloss.Width(rendered), 0)
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

func iconColor(level Level) (string, color.Color) {
	switch level {
	case Warning:
		return "\u26A0", style.Warning // ⚠
	case Error:
		return "\u2718", style.Error // ✘
	default:
		return "\u2713", style.Success // ✓
	}
}

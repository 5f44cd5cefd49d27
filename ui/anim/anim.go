// Package anim provides the pulsing glyph shown next to a live stream.
//
// The glyph breathes between two colors along a sine curve. Frames are
// rendered once per color pair and reused.
package anim

import (
	"image/color"
	"math"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/style"
)

const (
	fps           = 10
	frameDuration = time.Second / fps
	steps         = 12
)

var glyphs = []string{"●", "◉", "○", "◉"}

// idCounter gives each Model an ID so TickMsg events don't cross-talk
// between pulses.
var idCounter atomic.Int64

// TickMsg advances the pulse with the matching ID by one frame.
type TickMsg struct {
	ID  int64
	Gen uint64
}

// Model is a pulsing status glyph (value receiver Update/View, pointer
// receiver mutators).
type Model struct {
	id     int64
	gen    uint64 // bumped on Start so ticks of an earlier run die out
	on     bool
	frame  int
	from   color.Color
	to     color.Color
	frames []string
}

// New creates a stopped pulse between from and to.
func New(from, to color.Color) Model {
	m := Model{id: idCounter.Add(1)}
	m.SetColors(from, to)
	return m
}

// SetColors re-renders the frame cache, e.g. after a theme switch.
func (m *Model) SetColors(from, to color.Color) {
	m.from, m.to = from, to
	m.frames = make([]string, steps)
	for i := range m.frames {
		t := (1 - math.Cos(2*math.Pi*float64(i)/steps)) / 2
		c := style.LerpColor(from, to, t)
		g := glyphs[i*len(glyphs)/steps]
		m.frames[i] = lipgloss.NewStyle().Foreground(c).Bold(true).Render(g)
	}
}

// Start begins the animation and returns the first frame command.
func (m *Model) Start() tea.Cmd {
	m.on = true
	m.gen++
	m.frame = 0
	return m.tick()
}

// Stop halts the animation. View returns "" until Start is called.
func (m *Model) Stop() { m.on = false }

// Running reports whether the pulse is animating.
func (m Model) Running() bool { return m.on }

// Update advances the frame on each TickMsg addressed to this model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.Gen != m.gen || !m.on {
		return m, nil
	}
	m.frame = (m.frame + 1) % len(m.frames)
	return m, m.tick()
}

// View renders the current frame.
func (m Model) View() string {
	if !m.on {
		return ""
	}
	return m.frames[m.frame]
}

func (m Model) tick() tea.Cmd {
	id, gen := m.id, m.gen
	return tea.Tick(frameDuration, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen}
	})
}

// Package header renders the one-line title bar with its separator.
package header

import (
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/miosa/osa-vlist/style"
)

// Height is the number of lines HeaderView occupies.
const Height = 2

// Model holds the state for the compact header.
type Model struct {
	version    string
	theme      string
	configPath string
	width      int
}

// New returns a header for the given version string.
func New(version string) Model {
	return Model{version: version}
}

// SetTheme updates the displayed theme name.
func (m *Model) SetTheme(name string) { m.theme = name }

// SetConfigPath updates the displayed config file path.
func (m *Model) SetConfigPath(path string) { m.configPath = path }

// SetWidth updates the terminal width used for separator sizing.
func (m *Model) SetWidth(w int) { m.width = w }

// View returns the title line: "◈ osa-vlist v1 · dark · ~/.osa/vlist.yaml".
func (m Model) View() string {
	title := style.ApplyBoldForegroundGrad("◈ osa-vlist")
	sep := style.HeaderMeta.Render(" · ")
	line := title
	if m.version != "" {
		line += " " + style.HeaderMeta.Render(m.version)
	}
	if m.theme != "" {
		line += sep + style.HeaderMeta.Render(m.theme)
	}
	if m.configPath != "" {
		room := m.width - lipgloss.Width(line) - lipgloss.Width(sep)
		if room >= 8 {
			line += sep + style.HeaderMeta.Render(truncatePath(m.configPath, room))
		}
	}
	return line
}

// HeaderView returns the title line plus a thin separator line.
func (m Model) HeaderView() string {
	return m.View() + "\n" + style.HeaderSeparator.Render(strings.Repeat("─", max(m.width, 0)))
}

// truncatePath shortens a config path to fit within maxWidth cells, trying
// in turn ~/relative, the last two segments, the basename and finally a hard
// cut.
func truncatePath(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	fits := func(p string) bool { return ansi.StringWidth(p) <= maxWidth }
	if fits(path) {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(path, home) {
		if short := "~" + path[len(home):]; fits(short) {
			return short
		}
	}
	base := filepath.Base(path)
	for _, short := range []string{
		"…/" + filepath.Base(filepath.Dir(path)) + "/" + base,
		"…/" + base,
	} {
		if fits(short) {
			return short
		}
	}
	return ansi.Truncate(path, maxWidth, "…")
}

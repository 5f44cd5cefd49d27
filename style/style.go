// Package style holds the color palette and the shared lipgloss styles.
package style

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors, initialized to dark theme defaults. Updated via SetTheme().
var (
	Primary   color.Color = darkTheme.Primary
	Secondary color.Color = darkTheme.Secondary
	Success   color.Color = darkTheme.Success
	Warning   color.Color = darkTheme.Warning
	Error     color.Color = darkTheme.Error
	Muted     color.Color = darkTheme.Muted
	Dim       color.Color = darkTheme.Dim
	Border    color.Color = darkTheme.Border

	EntryInfo  color.Color = darkTheme.EntryInfo
	EntryWarn  color.Color = darkTheme.EntryWarn
	EntryError color.Color = darkTheme.EntryError

	BadgeBg color.Color = darkTheme.BadgeBg

	GradColorA color.Color = darkTheme.GradA
	GradColorB color.Color = darkTheme.GradB

	// GlamourStyle names the glamour standard style matching the theme.
	GlamourStyle = darkTheme.Glamour
)

// Base styles, rebuilt when the theme changes via rebuildStyles().
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	HeaderMeta      lipgloss.Style
	HeaderSeparator lipgloss.Style

	// Feed entries
	EntryMeta lipgloss.Style
	EntryText lipgloss.Style

	// Status bar
	StatusBar       lipgloss.Style
	StatusPinned    lipgloss.Style
	StatusFree      lipgloss.Style
	StatusStreaming lipgloss.Style
	UnseenBadge     lipgloss.Style

	// Help
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Scrollbar
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme, updating all color vars and rebuilding styles.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	EntryInfo = t.EntryInfo
	EntryWarn = t.EntryWarn
	EntryError = t.EntryError
	BadgeBg = t.BadgeBg
	GradColorA = t.GradA
	GradColorB = t.GradB
	GlamourStyle = t.Glamour
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	HeaderMeta = lipgloss.NewStyle().Foreground(Muted)
	HeaderSeparator = lipgloss.NewStyle().Foreground(Dim)

	EntryMeta = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	EntryText = lipgloss.NewStyle()

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusPinned = lipgloss.NewStyle().Foreground(Success).Bold(true)
	StatusFree = lipgloss.NewStyle().Foreground(Warning)
	StatusStreaming = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	UnseenBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(BadgeBg).
		Bold(true).
		Padding(0, 1)

	HelpKey = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(Muted)
	HelpSeparator = lipgloss.NewStyle().Foreground(Dim)

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)
}

// EntryBorder returns the left-border style for a feed entry of the given
// severity: 0 info, 1 warning, 2 error.
func EntryBorder(level int) lipgloss.Style {
	c := EntryInfo
	switch level {
	case 1:
		c = EntryWarn
	case 2:
		c = EntryError
	}
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(c).
		PaddingLeft(1)
}

package app

import "charm.land/bubbles/v2/key"

// KeyMap defines all global keybindings. It implements help.KeyMap.
type KeyMap struct {
	// Global
	Quit key.Binding
	Help key.Binding

	// Feed
	Stream   key.Binding
	Append   key.Binding
	Slice    key.Binding
	Markdown key.Binding
	Copy     key.Binding

	// Navigation
	ScrollUp     key.Binding // k
	ScrollDown   key.Binding // j
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding // u
	HalfPageDown key.Binding // d
	ScrollTop    key.Binding
	ScrollBottom key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Stream: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop stream"),
		),
		Append: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "append one"),
		),
		Slice: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "drop oldest half"),
		),
		Markdown: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle markdown"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y", "c"),
			key.WithHelp("y/c", "copy last visible"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "half page down"),
		),
		ScrollTop: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home", "oldest"),
		),
		ScrollBottom: key.NewBinding(
			key.WithKeys("end", "b", "G"),
			key.WithHelp("b/end", "follow newest"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stream, k.Append, k.Slice, k.ScrollBottom, k.Help, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Stream, k.Append, k.Slice, k.Markdown, k.Copy},
		{k.ScrollUp, k.ScrollDown, k.HalfPageUp, k.HalfPageDown},
		{k.PageUp, k.PageDown, k.ScrollTop, k.ScrollBottom},
		{k.Help, k.Quit},
	}
}

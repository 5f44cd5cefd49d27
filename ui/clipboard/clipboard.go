// Package clipboard copies text to the system clipboard using every
// mechanism available: an OSC 52 sequence through the terminal (works over
// SSH) and the native clipboard of the host.
package clipboard

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
)

// CopiedMsg reports the outcome of the native copy. Err is set when the
// native clipboard failed; the OSC 52 copy may still have succeeded.
type CopiedMsg struct {
	Chars int
	Err   error
}

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

// Copy returns a command that copies text through the terminal and the
// native clipboard.
func Copy(text string) tea.Cmd {
	return tea.Batch(tea.SetClipboard(text), native(text))
}

func native(text string) tea.Cmd {
	return func() tea.Msg {
		n := utf8.RuneCountInString(text)
		if clipboard.Unsupported {
			return CopiedMsg{Chars: n}
		}
		return CopiedMsg{Chars: n, Err: writeAll(text)}
	}
}

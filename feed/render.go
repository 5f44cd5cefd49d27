package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/miosa/osa-vlist/style"
)

// entryChrome is the width taken by the left border and its padding.
const entryChrome = 2

// Renderer turns entries into styled blocks. Markdown entries go through
// glamour; plain entries are word-wrapped.
type Renderer struct {
	markdown     bool
	glamourStyle string
	version      int
	md           map[int]*glamour.TermRenderer
}

// NewRenderer returns a renderer using the given glamour standard style
// ("dark", "light", "notty", ...).
func NewRenderer(markdown bool, glamourStyle string) *Renderer {
	return &Renderer{
		markdown:     markdown,
		glamourStyle: glamourStyle,
		version:      1,
		md:           make(map[int]*glamour.TermRenderer),
	}
}

// Markdown reports whether entries are rendered as markdown.
func (r *Renderer) Markdown() bool { return r.markdown }

// SetMarkdown switches the rendering mode.
func (r *Renderer) SetMarkdown(on bool) {
	if on == r.markdown {
		return
	}
	r.markdown = on
	r.version++
}

// SetGlamourStyle changes the markdown style, e.g. after a theme switch.
func (r *Renderer) SetGlamourStyle(name string) {
	if name == r.glamourStyle {
		return
	}
	r.glamourStyle = name
	r.md = make(map[int]*glamour.TermRenderer)
	r.version++
}

// Version changes whenever the output for an unchanged entry would change.
func (r *Renderer) Version() int { return r.version }

// Render renders e at width columns: a meta line, then the body.
func (r *Renderer) Render(e Entry, width int) string {
	inner := max(width-entryChrome, 1)
	meta := style.EntryMeta.Render(fmt.Sprintf("#%d · %s · %s", e.Seq, e.At.Format("15:04:05"), e.Level))

	var body string
	if r.markdown {
		body = r.renderMarkdown(e.Text, inner)
	} else {
		body = wordwrap.String(e.Text, inner)
	}
	return style.EntryBorder(int(e.Level)).Render(meta + "\n" + style.EntryText.Render(body))
}

// renderMarkdown renders md with glamour, falling back to wrapped plain text
// on error.
func (r *Renderer) renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	tr, ok := r.md[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.glamourStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return wordwrap.String(md, width)
		}
		r.md[width] = tr
	}
	out, err := tr.Render(md)
	if err != nil {
		return wordwrap.String(md, width)
	}
	return strings.Trim(out, "\n")
}

// Item adapts an entry to the list widget.
type Item struct {
	entry Entry
	r     *Renderer
}

// Item wraps e for rendering with r.
func (r *Renderer) Item(e Entry) Item {
	return Item{entry: e, r: r}
}

func (it Item) ID() string          { return it.entry.Key.String() }
func (it Item) ContentVersion() int { return it.r.version }
func (it Item) Render(width int) string {
	return it.r.Render(it.entry, width)
}

// Entry returns the wrapped entry.
func (it Item) Entry() Entry { return it.entry }

// Package app is the root Bubble Tea model of the feed demo: a generated
// log stream shown through the virtualized list.
package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"pkt.systems/pslog"

	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/feed"
	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/anim"
	"github.com/miosa/osa-vlist/ui/clipboard"
	"github.com/miosa/osa-vlist/ui/header"
	"github.com/miosa/osa-vlist/ui/list"
	"github.com/miosa/osa-vlist/ui/status"
	"github.com/miosa/osa-vlist/ui/toast"
)

// Options configures New.
type Options struct {
	Config     config.Config
	ConfigPath string
	Version    string
	Preload    int // entries appended on Init
	Logger     pslog.Logger
}

// -- Model --------------------------------------------------------------------

// Model is the root Bubble Tea model. It owns the feed, every sub-model and
// the wiring between them.
type Model struct {
	header header.Model
	list   list.Model
	status status.Model
	toasts toast.Model
	help   help.Model
	pulse  anim.Model

	keys   KeyMap
	state  State
	layout Layout

	cfg     config.Config
	log     pslog.Logger
	store   *feed.Store
	gen     *feed.Generator
	rend    *feed.Renderer
	preload int

	// streamGen invalidates ticks scheduled by an earlier stream run.
	streamGen uint64

	width  int
	height int
}

// New constructs the root Model. The theme must already be applied; the
// renderer picks its glamour style from it.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	log := opts.Logger
	if log == nil {
		log = pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true, MinLevel: pslog.ErrorLevel})
	}

	m := Model{
		header:  header.New(opts.Version),
		status:  status.New(),
		toasts:  toast.New(),
		help:    help.New(),
		pulse:   anim.New(style.GradColorA, style.GradColorB),
		keys:    DefaultKeyMap(),
		cfg:     cfg,
		log:     log,
		store:   feed.NewStore(cfg.Feed.MaxItems),
		gen:     feed.NewGenerator(cfg.Feed.Seed),
		rend:    feed.NewRenderer(cfg.Markdown, style.GlamourStyle),
		preload: max(opts.Preload, 0),
	}
	m.header.SetTheme(style.CurrentThemeName)
	m.header.SetConfigPath(opts.ConfigPath)
	m.status.SetMarkdown(cfg.Markdown)
	m.applyHelpStyles()

	lc := cfg.ListConfig()
	l, err := list.New(m.source(),
		list.WithGap(cfg.Gap),
		list.WithBufferSize(lc.BufferSize),
		list.WithEstimatedHeight(lc.EstimatedItemHeight),
		list.WithStickEpsilon(lc.StickEpsilon),
		list.WithLogger(log),
	)
	if err != nil {
		return Model{}, fmt.Errorf("app: %w", err)
	}
	m.list = l
	m.syncStatus()
	return m, nil
}

// source maps list indices onto the store. Store and renderer are shared
// pointers, so the closure stays valid across copies of Model.
func (m Model) source() list.Source {
	store, rend := m.store, m.rend
	return func(i int) list.Item {
		e, ok := store.At(i)
		if !ok {
			return nil
		}
		return rend.Item(e)
	}
}

func (m *Model) applyHelpStyles() {
	m.help.Styles.ShortKey = style.HelpKey
	m.help.Styles.ShortDesc = style.HelpDesc
	m.help.Styles.ShortSeparator = style.HelpSeparator
	m.help.Styles.FullKey = style.HelpKey
	m.help.Styles.FullDesc = style.HelpDesc
	m.help.Styles.FullSeparator = style.HelpSeparator
	m.help.Styles.Ellipsis = style.HelpSeparator
}

// State returns the current application state.
func (m Model) State() State { return m.state }

// Store returns the feed backing the list.
func (m Model) Store() *feed.Store { return m.store }

// List returns the list sub-model.
func (m Model) List() list.Model { return m.list }

// Close releases the list session.
func (m Model) Close() error { return m.list.Close() }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg { return tea.RequestWindowSize() }}
	if m.preload > 0 {
		n := m.preload
		cmds = append(cmds, func() tea.Msg { return msg.Append{Count: n} })
	}
	return tea.Batch(cmds...)
}

// -- Update -------------------------------------------------------------------

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.header.SetWidth(v.Width)
		m.status.SetWidth(v.Width)
		m.help.SetWidth(v.Width)
		cmd := m.relayout()
		return m, cmd

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(v)
		m.syncStatus()
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(v)

	// -- List --

	case list.TimerMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(v)
		m.syncStatus()
		return m, cmd

	case list.UnseenMsg:
		if v.ID == m.list.ID() {
			m.log.Trace("unseen changed", "count", v.Count)
			m.syncStatus()
		}
		return m, nil

	case list.ErrMsg:
		if v.ID != m.list.ID() {
			return m, nil
		}
		cmd := m.fail(v.Err)
		return m, cmd

	// -- Feed --

	case msg.StreamTick:
		if v.Gen != m.streamGen || m.state != StateStreaming {
			return m, nil
		}
		cmd := m.appendEntries(1)
		return m, tea.Batch(cmd, m.streamTick())

	case msg.Append:
		cmd := m.appendEntries(v.Count)
		return m, cmd

	case msg.Sliced:
		text := fmt.Sprintf("dropped %d oldest", v.Removed)
		level := toast.Info
		if v.Evicted {
			text = fmt.Sprintf("evicted %d past max_items", v.Removed)
			level = toast.Warning
		}
		cmd := m.addToast(text, level)
		return m, cmd

	case clipboard.CopiedMsg:
		if v.Err != nil {
			m.log.Debug("native clipboard unavailable", "err", v.Err)
		}
		return m, nil

	case anim.TickMsg:
		var cmd tea.Cmd
		m.pulse, cmd = m.pulse.Update(v)
		m.status.SetPulse(m.pulse.View())
		return m, cmd

	case toast.ExpireMsg:
		m.toasts.Expire(v.At)
		cmd := m.relayout()
		return m, cmd
	}

	return m, nil
}

// -- Key handling -------------------------------------------------------------

func (m Model) handleKey(k tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches[tea.KeyPressMsg](k, m.keys.Quit):
		m.state = StateIdle
		m.streamGen++
		return m, tea.Quit

	case key.Matches[tea.KeyPressMsg](k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		cmd := m.relayout()
		return m, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.Stream):
		return m.toggleStream()

	case key.Matches[tea.KeyPressMsg](k, m.keys.Append):
		cmd := m.appendEntries(1)
		return m, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.Slice):
		cmd := m.sliceFront()
		return m, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.Copy):
		cmd := m.copyVisible()
		return m, cmd

	case key.Matches[tea.KeyPressMsg](k, m.keys.Markdown):
		on := !m.rend.Markdown()
		m.rend.SetMarkdown(on)
		m.status.SetMarkdown(on)
		err = m.list.SetSource(m.source())
		m.log.Debug("markdown toggled", "on", on)

	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollUp):
		err = m.list.ScrollUp(1)
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollDown):
		err = m.list.ScrollDown(1)
	case key.Matches[tea.KeyPressMsg](k, m.keys.PageUp):
		err = m.list.PageUp()
	case key.Matches[tea.KeyPressMsg](k, m.keys.PageDown):
		err = m.list.PageDown()
	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageUp):
		err = m.list.HalfPageUp()
	case key.Matches[tea.KeyPressMsg](k, m.keys.HalfPageDown):
		err = m.list.HalfPageDown()
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollTop):
		err = m.list.ScrollToTop()
	case key.Matches[tea.KeyPressMsg](k, m.keys.ScrollBottom):
		err = m.list.ScrollToBottom()

	default:
		return m, nil
	}
	m.syncStatus()
	if err != nil {
		cmd := m.fail(err)
		return m, tea.Batch(cmd, m.list.Cmd())
	}
	return m, m.list.Cmd()
}

// -- Feed ---------------------------------------------------------------------

func (m Model) toggleStream() (tea.Model, tea.Cmd) {
	m.streamGen++
	if m.state == StateStreaming {
		m.state = StateIdle
		m.pulse.Stop()
		m.status.SetStreaming(false)
		m.status.SetPulse("")
		m.log.Info("stream stopped", "items", m.store.Len())
		return m, nil
	}
	m.state = StateStreaming
	pulse := m.pulse.Start()
	m.status.SetStreaming(true)
	m.status.SetPulse(m.pulse.View())
	m.log.Info("stream started", "interval_ms", m.cfg.Feed.IntervalMS)
	return m, tea.Batch(m.streamTick(), pulse)
}

func (m Model) streamTick() tea.Cmd {
	gen := m.streamGen
	d := time.Duration(m.cfg.Feed.IntervalMS) * time.Millisecond
	return tea.Tick(d, func(t time.Time) tea.Msg { return msg.StreamTick{Gen: gen, At: t} })
}

// appendEntries generates n entries and hands the new count to the list.
// Entries evicted by max_items are reported to the list as a front slice
// first, so it rebases its offsets before the new items arrive.
func (m *Model) appendEntries(n int) tea.Cmd {
	if n <= 0 {
		return nil
	}
	before := m.store.Len()
	evicted := 0
	for range n {
		level, text := m.gen.Next()
		_, ev := m.store.Append(level, text)
		evicted += ev
	}

	var cmds []tea.Cmd
	if evicted > 0 {
		if err := m.list.SetCount(max(before-evicted, 0)); err != nil {
			return tea.Batch(m.fail(err), m.list.Cmd())
		}
		m.log.Debug("feed evicted", "removed", evicted, "max_items", m.store.MaxItems())
		cmds = append(cmds, func() tea.Msg { return msg.Sliced{Removed: evicted, Evicted: true} })
	}
	if err := m.list.SetCount(m.store.Len()); err != nil {
		cmds = append(cmds, m.fail(err))
	}
	m.syncStatus()
	return tea.Batch(append(cmds, m.list.Cmd())...)
}

// sliceFront drops the oldest half of the feed.
func (m *Model) sliceFront() tea.Cmd {
	removed := m.store.DropFront(m.store.Len() / 2)
	if removed == 0 {
		return nil
	}
	m.log.Info("feed sliced", "removed", removed, "items", m.store.Len())
	var cmds []tea.Cmd
	if err := m.list.SetCount(m.store.Len()); err != nil {
		cmds = append(cmds, m.fail(err))
	}
	m.syncStatus()
	cmds = append(cmds, func() tea.Msg { return msg.Sliced{Removed: removed} }, m.list.Cmd())
	return tea.Batch(cmds...)
}

// copyVisible copies the text of the newest entry in view.
func (m *Model) copyVisible() tea.Cmd {
	vis := m.list.Visible()
	if len(vis) == 0 {
		return nil
	}
	e, ok := m.store.At(vis[len(vis)-1])
	if !ok {
		return nil
	}
	toastCmd := m.addToast(fmt.Sprintf("copied #%d", e.Seq), toast.Info)
	return tea.Batch(clipboard.Copy(e.Text), toastCmd)
}

// -- Helpers ------------------------------------------------------------------

// fail logs err and surfaces it as an error toast.
func (m *Model) fail(err error) tea.Cmd {
	m.log.Error("list update failed", "err", err)
	return m.addToast(err.Error(), toast.Error)
}

func (m *Model) addToast(text string, level toast.Level) tea.Cmd {
	cmds := []tea.Cmd{m.toasts.Add(text, level)}
	if err := m.recomputeLayout(); err != nil {
		m.log.Error("list resize failed", "err", err)
		// fail already toasted this error.
		if err.Error() != text {
			cmds = append(cmds, m.toasts.Add(err.Error(), toast.Error))
			if err := m.recomputeLayout(); err != nil {
				m.log.Error("list resize failed", "err", err)
			}
		}
	}
	return tea.Batch(append(cmds, m.list.Cmd())...)
}

// relayout recomputes the layout and returns the list's queued commands,
// toasting a failed resize.
func (m *Model) relayout() tea.Cmd {
	if err := m.recomputeLayout(); err != nil {
		return m.fail(err)
	}
	return m.list.Cmd()
}

// recomputeLayout recalculates the Layout and resizes the list to fit. The
// status bar is synced even when the resize fails.
func (m *Model) recomputeLayout() error {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	m.layout = ComputeLayout(
		m.width, m.height,
		countLines(m.help.View(m.keys)),
		m.toasts.Len(),
	)
	err := m.list.SetSize(m.layout.ListWidth, m.layout.ListHeight)
	m.syncStatus()
	if err != nil {
		return fmt.Errorf("resize list: %w", err)
	}
	return nil
}

// syncStatus copies the list figures into the status bar.
func (m *Model) syncStatus() {
	f := m.list.Frame()
	m.status.SetList(m.list.Count(), f.Range.Start, f.Range.End, m.list.Offset(), f.TotalHeight, m.list.Pinned(), m.list.Unseen())
}

// countLines returns the number of lines in a rendered string.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// -- View ---------------------------------------------------------------------

// View returns the tea.View for the current frame.
// AltScreen and MouseMode are set on every frame.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// renderView composes the full terminal frame as a string.
func (m Model) renderView() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	sections := []string{
		m.header.HeaderView(),
		m.list.View(),
	}
	if m.toasts.Len() > 0 {
		sections = append(sections, m.toasts.View(m.width))
	}
	sections = append(sections, m.status.View(), m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

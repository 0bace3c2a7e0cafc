// Package ui renders a timeline as a scrollable bubbletea page with
// next/previous navigation controls.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/config"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/layout"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/lazyload"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/tracking"
)

// wheelLines is how far one mouse wheel notch scrolls.
const wheelLines = 3

// ReloadMsg replaces the displayed timeline, e.g. after the file changed.
type ReloadMsg struct {
	Timeline model.Timeline
	Err      error
}

// statusMsg sets the status line.
type statusMsg struct {
	text string
	err  bool
}

// visibleLoadedMsg carries the load results for the initial viewport,
// keyed by entry ID.
type visibleLoadedMsg struct {
	results map[string][]lazyload.Result
}

func failedImages(results map[string][]lazyload.Result) int {
	n := 0
	for _, rs := range results {
		for _, r := range rs {
			if !r.Loaded() {
				n++
			}
		}
	}
	return n
}

// visibilityTickMsg fires once scrolling has been quiet for the debounce
// interval. Ticks from older scrolls carry a stale generation.
type visibilityTickMsg struct {
	gen uint64
}

// Options are the collaborators of a Model. Zero values are usable: a nil
// Tracker disables tracking and a nil Images loader resolves relative to the
// timeline directory.
type Options struct {
	Config   config.Config
	Profile  timeline.DeviceProfile
	Tracker  *tracking.Tracker
	Images   *lazyload.Loader
	Renderer *lipgloss.Renderer
	Logger   *log.Logger

	// Clipboard writes text to the system clipboard. Defaults to
	// clipboard.WriteAll.
	Clipboard func(string) error
}

// Model is the timeline viewer.
type Model struct {
	cfg      config.Config
	theme    Theme
	timeline model.Timeline
	profile  timeline.DeviceProfile

	vp         *viewport.Model
	page       layout.Page
	nav        *timeline.Navigator
	scheduler  *cmdScheduler
	loader     *imageLoader
	images     *lazyload.Loader
	visibility *timeline.VisibilityController
	controls   timeline.Visibility
	scrollGen  uint64

	markdown  *MarkdownRenderer
	tracker   *tracking.Tracker
	clipboard func(string) error
	logger    *log.Logger

	keys     keyMap
	help     help.Model
	showHelp bool

	status    string
	statusErr bool
	width     int
	height    int
	ready     bool
}

// NewModel creates a viewer for tl.
func NewModel(tl model.Timeline, opts Options) Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	images := opts.Images
	if images == nil {
		images = lazyload.NewLoader(tl.Dir)
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	theme := ThemeNamed(r, opts.Config.Theme)

	vp := viewport.New(80, 24)
	m := Model{
		cfg:        opts.Config,
		theme:      theme,
		timeline:   tl,
		profile:    opts.Profile,
		vp:         &vp,
		scheduler:  &cmdScheduler{},
		loader:     newImageLoader(images, tl.Entries),
		images:     images,
		visibility: timeline.NewVisibilityController(vp.Height),
		markdown:   NewMarkdownRenderer(80, theme.MarkdownStyle),
		tracker:    opts.Tracker,
		clipboard:  copyFn,
		logger:     logger,
		keys:       defaultKeyMap(),
		help:       help.New(),
		width:      80,
		height:     24,
	}
	p := pane{vp: m.vp}
	m.nav = timeline.NewNavigator(nil, m.profile, p, p, m.loader, m.scheduler)
	m.nav.SetLogger(logger)
	return m
}

// Init starts listening for finished image loads.
func (m Model) Init() tea.Cmd {
	return m.loader.wait()
}

// Update handles input, window and background messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if !m.ready {
			m.ready = true
			cmds = append(cmds, m.loadVisible())
		}
		cmds = append(cmds, m.scrolled())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.vp.LineDown(wheelLines)
			cmds = append(cmds, m.scrolled())
		case tea.MouseButtonWheelUp:
			m.vp.LineUp(wheelLines)
			cmds = append(cmds, m.scrolled())
		}

	case visibilityTickMsg:
		if msg.gen == m.scrollGen {
			m.updateControls()
		}

	case lazyLoadedMsg:
		m.relayout()
		cmds = append(cmds, m.loader.wait())

	case visibleLoadedMsg:
		m.relayout()
		if n := failedImages(msg.results); n > 0 {
			m.setStatus(fmt.Sprintf("%d images unavailable", n), true)
		}

	case ReloadMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
			break
		}
		m.SetTimeline(msg.Timeline)
		m.setStatus(fmt.Sprintf("reloaded %d entries", len(msg.Timeline.Entries)), false)
		cmds = append(cmds, m.loadVisible(), m.scrolled())

	case statusMsg:
		m.setStatus(msg.text, msg.err)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.SetSize(m.width, m.height)
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.navigate(true, false)
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(false, false)
	case key.Matches(msg, m.keys.NextButton):
		return m.navigate(true, true)
	case key.Matches(msg, m.keys.PrevButton):
		return m.navigate(false, true)
	case key.Matches(msg, m.keys.LineDown):
		m.vp.LineDown(1)
	case key.Matches(msg, m.keys.LineUp):
		m.vp.LineUp(1)
	case key.Matches(msg, m.keys.HalfDown):
		m.vp.LineDown(max(m.vp.Height/2, 1))
	case key.Matches(msg, m.keys.HalfUp):
		m.vp.LineUp(max(m.vp.Height/2, 1))
	case key.Matches(msg, m.keys.Top):
		m.vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.vp.GotoBottom()
	case key.Matches(msg, m.keys.Copy):
		return m.copyActive()
	default:
		return nil
	}
	return m.scrolled()
}

// navigate moves to the next or previous item. A button press also tracks
// the control click, even when there is nowhere to go.
func (m *Model) navigate(forward, button bool) tea.Cmd {
	var cmds []tea.Cmd
	if button {
		control := m.cfg.Controls.Prev
		if forward {
			control = m.cfg.Controls.Next
		}
		cmds = append(cmds, m.track(&control))
	}

	var (
		target timeline.Item
		moved  bool
		err    error
	)
	if forward {
		target, moved, err = m.nav.Next()
	} else {
		target, moved, err = m.nav.Prev()
	}

	switch {
	case errors.Is(err, timeline.ErrInvalidState):
		m.setStatus("timeline is empty", true)
		return tea.Batch(cmds...)
	case err != nil:
		m.setStatus(err.Error(), true)
		return tea.Batch(cmds...)
	case !moved:
		return tea.Batch(cmds...)
	}

	if target.Index < len(m.timeline.Entries) {
		cmds = append(cmds, m.track(m.timeline.Entries[target.Index].Track))
	}
	cmds = append(cmds, m.scheduler.drain()...)
	cmds = append(cmds, m.scrolled())
	return tea.Batch(cmds...)
}

// scrolled restarts the visibility debounce. With no debounce configured the
// controls update immediately.
func (m *Model) scrolled() tea.Cmd {
	m.scrollGen++
	if m.cfg.Debounce <= 0 {
		m.updateControls()
		return nil
	}
	gen := m.scrollGen
	return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg {
		return visibilityTickMsg{gen: gen}
	})
}

func (m *Model) updateControls() {
	m.controls = m.visibility.Update(m.vp.YOffset, m.page.ListTop)
}

func (m Model) track(meta *model.Track) tea.Cmd {
	if !m.tracker.Enabled() || meta.IsZero() {
		return nil
	}
	tracker := m.tracker
	return func() tea.Msg {
		if err := tracker.Track(context.Background(), meta); err != nil {
			return statusMsg{text: fmt.Sprintf("tracking: %v", err), err: true}
		}
		return nil
	}
}

// copyActive copies the active entry's title and link.
func (m Model) copyActive() tea.Cmd {
	e, ok := m.ActiveEntry()
	if !ok {
		return nil
	}
	text := e.Title
	if e.Link != "" {
		text += " " + e.Link
	}
	copyFn := m.clipboard
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return statusMsg{text: fmt.Sprintf("copy failed: %v", err), err: true}
		}
		return statusMsg{text: "copied: " + Truncate(text, 60)}
	}
}

// loadVisible loads, in one batch, the images of every entry intersecting
// the current viewport.
func (m Model) loadVisible() tea.Cmd {
	entries := m.visibleEntries()
	if len(entries) == 0 {
		return nil
	}
	images := m.images
	return func() tea.Msg {
		return visibleLoadedMsg{results: images.LoadAll(context.Background(), entries)}
	}
}

// visibleEntries returns the entries with images whose item intersects the
// viewport.
func (m Model) visibleEntries() []model.Entry {
	top, bottom := m.vp.YOffset, m.vp.YOffset+m.vp.Height
	var entries []model.Entry
	for _, it := range m.page.Items {
		if it.Offset >= bottom {
			break
		}
		if it.Bottom() <= top || it.Index >= len(m.timeline.Entries) {
			continue
		}
		if e := m.timeline.Entries[it.Index]; len(e.Images) > 0 {
			entries = append(entries, e)
		}
	}
	return entries
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	if isErr {
		m.logger.Printf("ui: %s", text)
	}
}

// SetSize resizes the viewport and re-lays out the page.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	m.vp.Width = width
	m.vp.Height = max(height-m.footerHeight(), 1)
	m.visibility.SetViewportHeight(m.vp.Height)
	m.relayout()
}

// SetTimeline swaps the displayed timeline, keeping the scroll position
// where possible.
func (m *Model) SetTimeline(tl model.Timeline) {
	m.timeline = tl
	m.loader.setEntries(tl.Entries)
	m.relayout()
}

func (m *Model) relayout() {
	width := max(m.width-1, 20)
	m.markdown.SetWidth(width)

	hero := m.renderHero(width)
	blocks := make([]string, len(m.timeline.Entries))
	for i, e := range m.timeline.Entries {
		blocks[i] = m.renderEntry(i, e, width)
	}
	if len(blocks) == 0 {
		hero += "\n" + m.renderEmptyState(width)
	}

	m.page = layout.Build(hero, blocks, layout.Options{
		ViewportHeight:   m.vp.Height,
		Profile:          m.profile,
		CompactItemScale: m.cfg.CompactItemScale,
	})

	y := m.vp.YOffset
	m.vp.SetContent(m.page.Content)
	m.vp.SetYOffset(y)
	m.nav.SetItems(m.page.Items)
}

func (m Model) footerHeight() int {
	h := 2 // controls bar and status line
	if m.showHelp {
		h += lipgloss.Height(m.help.View(m.keys))
	}
	return h
}

// View renders the page, the controls bar and the status line.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// renderControls renders the navigation bar, or a blank row while the
// controls are hidden.
func (m Model) renderControls() string {
	if m.controls != timeline.Shown {
		return strings.Repeat(" ", max(m.width, 0))
	}
	r := m.theme.Renderer

	active, err := m.nav.Active()
	if err != nil {
		return ""
	}
	pos := m.nav.Position()
	_, canPrev, _ := timeline.DecidePrev(m.page.Items, pos, m.profile)
	_, canNext, _ := timeline.DecideNext(m.page.Items, pos, m.profile)

	button := func(label string, enabled bool) string {
		if !enabled {
			return r.NewStyle().Foreground(m.theme.Muted).Render(label)
		}
		return m.theme.Key.Render(label)
	}

	total := len(m.page.Items)
	progress := r.NewStyle().Foreground(m.theme.Marker).Render(RenderProgress(active.Index+1, total, 12))
	counter := fmt.Sprintf(" %d/%d", active.Index+1, total)

	title := ""
	if e, ok := m.ActiveEntry(); ok {
		title = e.Title
		if n := len(e.Images); n > 0 {
			title += fmt.Sprintf(" (%d/%d images)", imagesLoaded(m.images, e), n)
		}
	}

	prev := button("◀ prev", canPrev)
	next := button("next ▶", canNext)
	fixed := lipgloss.Width(prev) + lipgloss.Width(next) + lipgloss.Width(progress) + lipgloss.Width(counter) + 8
	title = Truncate(title, max(m.width-fixed, 0))

	bar := prev + "  " + progress + counter + " · " + title + "  " + next
	return m.theme.Controls.Width(max(m.width-1, 0)).Render(bar)
}

func (m Model) renderStatus() string {
	r := m.theme.Renderer
	if m.status != "" {
		color := m.theme.Subtext
		if m.statusErr {
			color = m.theme.Failed
		}
		return r.NewStyle().Foreground(color).Render(Truncate(m.status, m.width))
	}
	if m.showHelp {
		return ""
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// ActiveEntry returns the entry of the active item.
func (m Model) ActiveEntry() (model.Entry, bool) {
	it, err := m.nav.Active()
	if err != nil || it.Index >= len(m.timeline.Entries) {
		return model.Entry{}, false
	}
	return m.timeline.Entries[it.Index], true
}

// Controls reports whether the navigation controls are shown.
func (m Model) Controls() timeline.Visibility {
	return m.controls
}

// Page returns the current layout.
func (m Model) Page() layout.Page {
	return m.page
}

// ScrollY returns the viewport's top row.
func (m Model) ScrollY() int {
	return m.vp.YOffset
}

// Profile returns the device profile the viewer runs with.
func (m Model) Profile() timeline.DeviceProfile {
	return m.profile
}

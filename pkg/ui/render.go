package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/lazyload"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// ImageState is the display state of one image placeholder.
type ImageState int

const (
	ImagePending ImageState = iota
	ImageLoaded
	ImageFailed
)

// imageLine renders an image as a single row so loading never changes the
// block height.
func (m Model) imageLine(img model.Image, width int) string {
	r := m.theme.Renderer
	state := ImagePending
	detail := "loading…"
	if res, ok := m.images.Cached(img.Src); ok {
		if res.Loaded() {
			state = ImageLoaded
			detail = fmt.Sprintf("%s %d×%d", res.Format, res.Width, res.Height)
		} else {
			state = ImageFailed
			detail = "unavailable"
		}
	}

	alt := img.Alt
	if alt == "" {
		alt = img.Src
	}
	line := fmt.Sprintf("▣ %s · %s", alt, detail)
	return r.NewStyle().Foreground(m.theme.ImageStateColor(state)).Render(Truncate(line, width))
}

// renderHero renders the block above the first item.
func (m Model) renderHero(width int) string {
	r := m.theme.Renderer
	title := m.timeline.Title
	if title == "" {
		title = "Timeline"
	}

	var b strings.Builder
	b.WriteString(m.theme.Header.Render(Truncate(title, width-2)))
	b.WriteString("\n")
	if m.timeline.Subtitle != "" {
		b.WriteString(r.NewStyle().Foreground(m.theme.Subtext).Italic(true).Render(Truncate(m.timeline.Subtitle, width)))
		b.WriteString("\n")
	}
	b.WriteString(r.NewStyle().Foreground(m.theme.Secondary).Render(
		fmt.Sprintf("%d entries · %s", len(m.timeline.Entries), m.profile)))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(m.theme.Border).Render(strings.Repeat("─", width)))
	return b.String()
}

// renderEntry renders one timeline item.
func (m Model) renderEntry(i int, e model.Entry, width int) string {
	r := m.theme.Renderer
	total := len(m.timeline.Entries)

	date := "undated"
	if !e.Date.IsZero() {
		date = e.Date.Format("2006-01-02")
	}
	marker := r.NewStyle().Foreground(m.theme.Marker).Render("●")
	dateText := r.NewStyle().Foreground(m.theme.Date).Bold(true).Render(date)
	counter := r.NewStyle().Foreground(m.theme.Subtext).Render(fmt.Sprintf("[%d/%d]", i+1, total))

	left := marker + " " + dateText
	gap := width - lipgloss.Width(left) - lipgloss.Width(counter)
	if gap < 1 {
		gap = 1
	}

	var b strings.Builder
	b.WriteString(left + strings.Repeat(" ", gap) + counter)
	b.WriteString("\n")
	b.WriteString(m.theme.Title.Render(Truncate(e.Title, width)))

	if e.Summary != "" {
		b.WriteString("\n")
		b.WriteString(r.NewStyle().Foreground(m.theme.Subtext).Width(width).Render(e.Summary))
	}
	if body := m.markdown.Render(e.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	for _, img := range e.Images {
		b.WriteString("\n")
		b.WriteString(m.imageLine(img, width))
	}
	if e.Link != "" {
		b.WriteString("\n")
		b.WriteString(r.NewStyle().Foreground(m.theme.Link).Underline(true).Render(Truncate("↗ "+e.Link, width)))
	}
	b.WriteString("\n")
	return b.String()
}

// renderEmptyState renders a message when the timeline has no entries.
func (m Model) renderEmptyState(width int) string {
	r := m.theme.Renderer
	style := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(max(width-2, 10))
	return style.Render("No timeline entries to show.")
}

// imagesLoaded reports how many images of e have a cached load result.
func imagesLoaded(l *lazyload.Loader, e model.Entry) int {
	n := 0
	for _, img := range e.Images {
		if _, ok := l.Cached(img.Src); ok {
			n++
		}
	}
	return n
}

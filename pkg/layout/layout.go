// Package layout stacks rendered timeline blocks into one scrollable page
// and records the geometry navigation runs on.
package layout

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// Page is a laid-out timeline.
type Page struct {
	Content string            // Every row of the page, newline separated
	ListTop int               // Row where the first item starts
	Items   timeline.Timeline // Geometry of each item
}

// Rows returns the total page height.
func (p Page) Rows() int {
	if p.Content == "" {
		return 0
	}
	return lipgloss.Height(p.Content)
}

// Options controls item sizing.
type Options struct {
	ViewportHeight int
	Profile        timeline.DeviceProfile
	// CompactItemScale is the minimum compact item height as a multiple of
	// the viewport height.
	CompactItemScale float64
}

// MinItemHeight is the row count every item is padded to.
func (o Options) MinItemHeight() int {
	h := o.ViewportHeight
	if h < 1 {
		h = 1
	}
	if o.Profile.Compact && o.CompactItemScale > 1 {
		return int(math.Ceil(float64(h) * o.CompactItemScale))
	}
	return h
}

// Build stacks hero above blocks. Each block is padded to at least
// MinItemHeight rows so one item fills the viewport.
func Build(hero string, blocks []string, opts Options) Page {
	var b strings.Builder
	row := 0

	if hero != "" {
		b.WriteString(hero)
		row = lipgloss.Height(hero)
	}
	page := Page{ListTop: row, Items: make(timeline.Timeline, 0, len(blocks))}

	minHeight := opts.MinItemHeight()
	for i, block := range blocks {
		h := lipgloss.Height(block)
		if h < minHeight {
			block = lipgloss.PlaceVertical(minHeight, lipgloss.Top, block)
			h = minHeight
		}
		if row > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block)

		page.Items = append(page.Items, timeline.Item{Index: i, Offset: row, Height: h})
		row += h
	}

	page.Content = b.String()
	return page
}

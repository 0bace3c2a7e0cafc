package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders entry bodies with Glamour and caches the output
// per source and width.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	style    string
	renderer *glamour.TermRenderer
	cache    map[string]string
}

// NewMarkdownRenderer creates a renderer wrapping at width.
func NewMarkdownRenderer(width int, style string) *MarkdownRenderer {
	m := &MarkdownRenderer{style: style, cache: make(map[string]string)}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the underlying renderer when the width changes.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width && m.renderer != nil {
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	m.width = width
	m.renderer = r
	m.cache = make(map[string]string)
}

// Render returns the rendered body, or src itself when Glamour is
// unavailable or fails.
func (m *MarkdownRenderer) Render(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if out, ok := m.cache[src]; ok {
		return out
	}
	if m.renderer == nil {
		return src
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	out = strings.Trim(out, "\n")
	m.cache[src] = out
	return out
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Renderer *lipgloss.Renderer

	// Glamour style used for entry bodies ("dark" or "light")
	MarkdownStyle string

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Timeline
	Marker  lipgloss.AdaptiveColor
	Date    lipgloss.AdaptiveColor
	Link    lipgloss.AdaptiveColor
	Loaded  lipgloss.AdaptiveColor
	Pending lipgloss.AdaptiveColor
	Failed  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Title    lipgloss.Style
	Header   lipgloss.Style
	Controls lipgloss.Style
	Key      lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:      r,
		MarkdownStyle: "dark",

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#999999", Dark: "#BFBFBF"}, // Dim
		Muted:     lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#44475A"},

		Marker:  lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"}, // Green
		Date:    lipgloss.AdaptiveColor{Light: "#D88000", Dark: "#FFB86C"}, // Orange
		Link:    lipgloss.AdaptiveColor{Light: "#007EA8", Dark: "#8BE9FD"}, // Cyan
		Loaded:  lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},
		Pending: lipgloss.AdaptiveColor{Light: "#A8A800", Dark: "#F1FA8C"}, // Yellow
		Failed:  lipgloss.AdaptiveColor{Light: "#D80000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Title = r.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Controls = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1)

	t.Key = r.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	return t
}

// ThemeNamed returns DefaultTheme with the glamour style for name. Colors
// stay adaptive; only markdown rendering needs an explicit choice.
func ThemeNamed(r *lipgloss.Renderer, name string) Theme {
	t := DefaultTheme(r)
	if name == "light" {
		t.MarkdownStyle = "light"
	}
	return t
}

// ImageStateColor returns the color for an image placeholder line.
func (t Theme) ImageStateColor(state ImageState) lipgloss.AdaptiveColor {
	switch state {
	case ImageLoaded:
		return t.Loaded
	case ImageFailed:
		return t.Failed
	default:
		return t.Pending
	}
}

package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// RenderProgress draws a bar of width cells showing position (1-based) out
// of total, e.g. "███▌░░░░".
func RenderProgress(position, total, width int) string {
	if width <= 0 {
		return ""
	}
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	if position < 0 {
		position = 0
	}
	if position > total {
		position = total
	}

	cells := float64(position) * float64(width) / float64(total)
	full := int(cells)
	half := cells-float64(full) >= 0.5 && full < width

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	rest := width - full
	if half {
		sb.WriteString("▌")
		rest--
	}
	sb.WriteString(strings.Repeat("░", rest))
	return sb.String()
}

// Truncate shortens s to at most width terminal cells, adding an ellipsis
// when cut. Wide runes (CJK, emoji) count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

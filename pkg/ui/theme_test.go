package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	// Check a few known colors are set (not zero value)
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Marker) {
		t.Error("DefaultTheme Marker color is empty")
	}
	if theme.MarkdownStyle != "dark" {
		t.Errorf("DefaultTheme MarkdownStyle = %q, want dark", theme.MarkdownStyle)
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestThemeNamed(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"", "dark"},
	}
	for _, tt := range tests {
		if got := ThemeNamed(renderer, tt.name).MarkdownStyle; got != tt.want {
			t.Errorf("ThemeNamed(%q).MarkdownStyle = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestImageStateColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		state ImageState
		want  lipgloss.AdaptiveColor
	}{
		{ImagePending, theme.Pending},
		{ImageLoaded, theme.Loaded},
		{ImageFailed, theme.Failed},
	}
	for _, tt := range tests {
		if got := theme.ImageStateColor(tt.state); got != tt.want {
			t.Errorf("ImageStateColor(%d) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

package ui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/config"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

func newTestModel(debounce time.Duration) Model {
	cfg := config.Default()
	cfg.Debounce = debounce
	tl := model.Timeline{Title: "T", Entries: []model.Entry{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}
	m := NewModel(tl, Options{Config: cfg, Renderer: lipgloss.NewRenderer(io.Discard)})
	m.SetSize(80, 6)
	return m
}

func TestVisibilityDebounce(t *testing.T) {
	m := newTestModel(250 * time.Millisecond)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("navigation should schedule a visibility tick")
	}
	if m.Controls() != timeline.Hidden {
		t.Fatal("controls changed before the debounce elapsed")
	}

	// A second scroll supersedes the first tick.
	stale := m.scrollGen
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = next.(Model)

	next, _ = m.Update(visibilityTickMsg{gen: stale})
	m = next.(Model)
	if m.Controls() != timeline.Hidden {
		t.Error("stale tick updated the controls")
	}

	next, _ = m.Update(visibilityTickMsg{gen: m.scrollGen})
	m = next.(Model)
	if m.Controls() != timeline.Shown {
		t.Errorf("current tick should show the controls, got %v", m.Controls())
	}
}

func TestCmdSchedulerDrain(t *testing.T) {
	s := &cmdScheduler{}
	ran := 0
	s.After(0, func() { ran++ })
	s.After(0, func() { ran++ })

	cmds := s.drain()
	if len(cmds) != 2 {
		t.Fatalf("drain returned %d cmds, want 2", len(cmds))
	}
	if len(s.drain()) != 0 {
		t.Error("second drain should be empty")
	}
	for _, c := range cmds {
		if msg := c(); msg != nil {
			t.Errorf("scheduled cmd returned %T, want nil", msg)
		}
	}
	if ran != 2 {
		t.Errorf("ran %d callbacks, want 2", ran)
	}
}

func TestPaneScroll(t *testing.T) {
	m := newTestModel(0)
	p := pane{vp: m.vp}

	p.ScrollTo(3)
	if p.ScrollY() != 3 || m.ScrollY() != 3 {
		t.Errorf("ScrollTo(3): pane=%d model=%d", p.ScrollY(), m.ScrollY())
	}
	if p.Height() != 4 {
		t.Errorf("Height = %d, want 4", p.Height())
	}
}

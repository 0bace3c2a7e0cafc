package ui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/lazyload"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// pane adapts a bubbles viewport to the navigator's Viewport and Scroller.
// Model copies share the pointer, so the navigator always sees the live
// scroll offset.
type pane struct {
	vp *viewport.Model
}

func (p pane) ScrollY() int { return p.vp.YOffset }
func (p pane) Height() int  { return p.vp.Height }

func (p pane) ScrollTo(offset int) { p.vp.SetYOffset(offset) }

// lazyLoadedMsg reports that image loads for an item finished.
type lazyLoadedMsg struct {
	Index int
}

// cmdScheduler turns scheduled callbacks into tea.Tick commands. The
// callback runs inside the command goroutine, and the model drains the
// collected commands after each navigation.
type cmdScheduler struct {
	mu   sync.Mutex
	cmds []tea.Cmd
}

func (s *cmdScheduler) After(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		fn()
		return nil
	}))
}

func (s *cmdScheduler) drain() []tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmds := s.cmds
	s.cmds = nil
	return cmds
}

// imageLoader loads an item's images when the navigator asks for it. It
// only touches the thread-safe lazyload cache and reports completion by
// sending on done.
type imageLoader struct {
	loader *lazyload.Loader
	done   chan lazyLoadedMsg

	mu      sync.RWMutex
	entries []model.Entry
}

func newImageLoader(l *lazyload.Loader, entries []model.Entry) *imageLoader {
	return &imageLoader{loader: l, entries: entries, done: make(chan lazyLoadedMsg, 64)}
}

func (il *imageLoader) setEntries(entries []model.Entry) {
	il.mu.Lock()
	il.entries = entries
	il.mu.Unlock()
}

// LazyLoad implements timeline.LazyLoader.
func (il *imageLoader) LazyLoad(it timeline.Item) {
	il.mu.RLock()
	if it.Index < 0 || it.Index >= len(il.entries) {
		il.mu.RUnlock()
		return
	}
	e := il.entries[it.Index]
	il.mu.RUnlock()
	if len(e.Images) == 0 {
		return
	}
	il.loader.Load(context.Background(), e.Images)
	select {
	case il.done <- lazyLoadedMsg{Index: it.Index}:
	default:
	}
}

// wait returns a command that delivers the next completed load.
func (il *imageLoader) wait() tea.Cmd {
	done := il.done
	return func() tea.Msg {
		return <-done
	}
}

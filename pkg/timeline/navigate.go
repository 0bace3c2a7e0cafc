package timeline

import (
	"io"
	"log"
	"sync"
	"time"
)

// DecideNext returns the item "next" should scroll to, or false at the last
// item.
//
// When the first item is active and its bottom edge is still below the
// viewport, next re-targets the first item so it is revealed fully instead
// of skipped.
func DecideNext(items Timeline, pos Position, profile DeviceProfile) (Item, bool, error) {
	active, err := Resolve(items, pos.ScrollY)
	if err != nil {
		return Item{}, false, err
	}

	if active.Index == 0 {
		bottom := float64(active.Offset) + float64(active.Height)*0.99
		limit := float64(pos.ScrollY+pos.ViewportHeight) + profile.DeviceOffset(pos.ViewportHeight)
		if bottom > limit {
			return active, true, nil
		}
	}

	target, ok := items.Next(active)
	return target, ok, nil
}

// DecidePrev returns the item "prev" should scroll to, or false when the
// first item is active and fully in view.
//
// An active item that is not fully in view is itself the target: prev
// scrolls back up to its top before moving to the predecessor.
func DecidePrev(items Timeline, pos Position, profile DeviceProfile) (Item, bool, error) {
	active, err := Resolve(items, pos.ScrollY)
	if err != nil {
		return Item{}, false, err
	}

	bottom := float64(active.Bottom()) + profile.DeviceOffset(pos.ViewportHeight)
	limit := float64(pos.ScrollY) + float64(pos.ViewportHeight)*0.99
	if bottom <= limit {
		return active, true, nil
	}

	target, ok := items.Prev(active)
	return target, ok, nil
}

// Viewport reports the live scroll state.
type Viewport interface {
	ScrollY() int
	Height() int
}

// Scroller moves the viewport so that offset is its top row.
type Scroller interface {
	ScrollTo(offset int)
}

// LazyLoader triggers deferred loading of the lazy-loadable content inside
// an item. It must not block.
type LazyLoader interface {
	LazyLoad(it Item)
}

// Scheduler runs fn once after delay. Scheduled calls are fire-and-forget.
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// Navigator performs next/previous navigation against injected collaborators.
type Navigator struct {
	items     Timeline
	profile   DeviceProfile
	viewport  Viewport
	scroller  Scroller
	loader    LazyLoader
	scheduler Scheduler
	logger    *log.Logger

	mu      sync.Mutex
	pending int // Lazy loads scheduled but not yet fired
}

// NewNavigator creates a navigator over items. A nil scheduler defaults to
// TimerScheduler; a nil loader disables lazy loading.
func NewNavigator(items Timeline, profile DeviceProfile, viewport Viewport, scroller Scroller, loader LazyLoader, scheduler Scheduler) *Navigator {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Navigator{
		items:     items,
		profile:   profile,
		viewport:  viewport,
		scroller:  scroller,
		loader:    loader,
		scheduler: scheduler,
		logger:    log.New(io.Discard, "", 0),
	}
}

// SetLogger sets a custom logger for navigation diagnostics.
func (n *Navigator) SetLogger(logger *log.Logger) {
	n.logger = logger
}

// SetItems replaces the timeline after a re-layout.
func (n *Navigator) SetItems(items Timeline) {
	n.items = items
}

// Items returns the current timeline.
func (n *Navigator) Items() Timeline {
	return n.items
}

// Profile returns the device profile the navigator was created with.
func (n *Navigator) Profile() DeviceProfile {
	return n.profile
}

// Position reads the live viewport state.
func (n *Navigator) Position() Position {
	return Position{ScrollY: n.viewport.ScrollY(), ViewportHeight: n.viewport.Height()}
}

// Active returns the currently active item.
func (n *Navigator) Active() (Item, error) {
	return Resolve(n.items, n.viewport.ScrollY())
}

// Next scrolls to the next target. It returns false, with no side effect,
// at the end of the timeline.
func (n *Navigator) Next() (Item, bool, error) {
	target, ok, err := DecideNext(n.items, n.Position(), n.profile)
	if err != nil || !ok {
		return target, ok, err
	}
	n.goTo(target)
	return target, true, nil
}

// Prev scrolls to the previous target. It returns false, with no side
// effect, at the start of the timeline.
func (n *Navigator) Prev() (Item, bool, error) {
	target, ok, err := DecidePrev(n.items, n.Position(), n.profile)
	if err != nil || !ok {
		return target, ok, err
	}
	n.goTo(target)
	return target, true, nil
}

func (n *Navigator) goTo(target Item) {
	n.scroller.ScrollTo(target.Offset)
	if n.loader == nil {
		return
	}

	// Timers from earlier navigations are not cancelled; a rapid sequence
	// loads every visited target.
	n.mu.Lock()
	n.pending++
	if n.pending > 1 {
		n.logger.Printf("navigation: %d lazy loads in flight", n.pending)
	}
	n.mu.Unlock()

	n.scheduler.After(n.profile.LazyLoadDelay, func() {
		n.mu.Lock()
		n.pending--
		n.mu.Unlock()
		n.loader.LazyLoad(target)
	})
}

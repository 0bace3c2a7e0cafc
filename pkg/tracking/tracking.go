// Package tracking records click events on tracked timeline elements.
//
// A Tracker without a sink is valid: events are dropped silently, the same
// way a page without an analytics global skips its tracking calls.
package tracking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// ClickSuffix is appended to every tracked action.
const ClickSuffix = "_Click"

// Event is one analytics hit.
type Event struct {
	Category string
	Action   string
	Label    string
	At       time.Time
}

// Sink receives events.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// Tracker turns element metadata into events for an optional sink.
type Tracker struct {
	sink   Sink
	now    func() time.Time
	logger *log.Logger
}

// NewTracker creates a tracker. sink may be nil.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{sink: sink, now: time.Now, logger: log.Default()}
}

// SetLogger sets the logger used for sink failures.
func (t *Tracker) SetLogger(logger *log.Logger) {
	t.logger = logger
}

// Enabled reports whether events go anywhere.
func (t *Tracker) Enabled() bool {
	return t != nil && t.sink != nil
}

// Track sends a click event for meta. It is a no-op without a sink or
// metadata. Sink errors are logged and returned but never fatal to the
// caller's handler.
func (t *Tracker) Track(ctx context.Context, meta *model.Track) error {
	if !t.Enabled() || meta.IsZero() {
		return nil
	}

	ev := Event{
		Category: meta.Category,
		Action:   meta.Action + ClickSuffix,
		Label:    meta.Label,
		At:       t.now(),
	}
	if err := t.sink.Send(ctx, ev); err != nil {
		if t.logger != nil {
			t.logger.Printf("tracking: %s/%s: %v", ev.Category, ev.Action, err)
		}
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}

// LogSink writes events to a logger.
type LogSink struct {
	Logger *log.Logger
}

// Send implements Sink.
func (s LogSink) Send(_ context.Context, ev Event) error {
	s.Logger.Printf("event category=%q action=%q label=%q", ev.Category, ev.Action, ev.Label)
	return nil
}

// MultiSink fans events out to several sinks, returning the first error.
type MultiSink []Sink

// Send implements Sink.
func (m MultiSink) Send(ctx context.Context, ev Event) error {
	var first error
	for _, s := range m {
		if err := s.Send(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

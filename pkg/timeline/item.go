// Package timeline resolves which item of a vertically stacked timeline is
// active for a scroll position and decides where next/previous navigation
// should land.
//
// All geometry is in page rows: Offset is an item's top row relative to the
// top of the page, Height its rendered row count.
package timeline

import "errors"

// ErrInvalidState is returned when navigation is asked to resolve against
// a timeline with no items.
var ErrInvalidState = errors.New("timeline: invalid state")

// Item is the rendered geometry of one timeline entry.
type Item struct {
	Index  int // Position in the timeline
	Offset int // Top row in page coordinates
	Height int // Rendered height in rows
}

// Bottom returns the first row below the item.
func (it Item) Bottom() int {
	return it.Offset + it.Height
}

// Timeline is an ordered sequence of items with ascending offsets.
type Timeline []Item

// At returns the item at index i, or false when i is out of range.
func (t Timeline) At(i int) (Item, bool) {
	if i < 0 || i >= len(t) {
		return Item{}, false
	}
	return t[i], true
}

// Next returns the successor of it.
func (t Timeline) Next(it Item) (Item, bool) {
	return t.At(it.Index + 1)
}

// Prev returns the predecessor of it.
func (t Timeline) Prev(it Item) (Item, bool) {
	return t.At(it.Index - 1)
}

// Position is the live viewport state navigation decisions are made from.
type Position struct {
	ScrollY        int // Rows scrolled past the top of the page
	ViewportHeight int // Visible rows
}

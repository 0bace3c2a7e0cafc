package timeline

import "fmt"

// Resolve returns the active item for scrollPosition: the last item whose
// offset is at most scrollPosition, or the first item when none is.
//
// Items are ordered by offset, so the scan stops at the first item that
// starts below scrollPosition.
func Resolve(items Timeline, scrollPosition int) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("resolve active item at %d: %w", scrollPosition, ErrInvalidState)
	}

	active := 0
	for i, it := range items {
		if it.Offset > scrollPosition {
			break
		}
		active = i
	}
	return items[active], nil
}

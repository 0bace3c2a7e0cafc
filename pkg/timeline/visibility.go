package timeline

// Visibility is the display state of the navigation controls.
type Visibility int

const (
	Hidden Visibility = iota
	Shown
)

func (v Visibility) String() string {
	if v == Shown {
		return "shown"
	}
	return "hidden"
}

// ControlsVisibility shows the controls once the middle of the viewport has
// passed the top of the list.
func ControlsVisibility(scrollPosition, viewportHeight, listTop int) Visibility {
	if float64(scrollPosition)+float64(viewportHeight)/2 > float64(listTop) {
		return Shown
	}
	return Hidden
}

// VisibilityController binds ControlsVisibility to a viewport height.
type VisibilityController struct {
	viewportHeight int
}

// NewVisibilityController creates a controller for a viewport of the given
// height.
func NewVisibilityController(viewportHeight int) *VisibilityController {
	return &VisibilityController{viewportHeight: viewportHeight}
}

// SetViewportHeight updates the bound height after a resize.
func (c *VisibilityController) SetViewportHeight(h int) {
	c.viewportHeight = h
}

// Update returns the visibility for the given scroll position and list top.
func (c *VisibilityController) Update(scrollPosition, listTop int) Visibility {
	return ControlsVisibility(scrollPosition, c.viewportHeight, listTop)
}

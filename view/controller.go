/*
Package view implements the transform used to display a single photo inside a
viewport.

A Controller starts out fitting the image to the centre of the viewport. A
double tap toggles a fixed 2x zoom and, while zoomed, dragging pans the image.
The resulting transform maps image pixel coordinates to viewport coordinates
and is returned as a golang.org/x/image/math/f64.Aff3.

A Controller is not safe for concurrent use; gesture events are expected to
arrive from a single goroutine.
*/
package view

import (
	"math"

	"golang.org/x/image/math/f64"
)

// ZoomFactor is the scale applied by ToggleZoom.
const ZoomFactor = 2.0

// State is either Fitted or Zoomed.
type State interface {
	isState()
}

// Fitted is the initial state, the whole image is visible and centred.
type Fitted struct{}

// Zoomed is the state after a double tap. Pan accumulates drag offsets in
// viewport pixels.
type Zoomed struct {
	Factor float64
	Pan    Point
}

func (Fitted) isState() {}
func (Zoomed) isState() {}

type drag struct {
	start Point
	pan   Point
}

// Controller tracks the view state for one image.
type Controller struct {
	viewport Size
	image    Size
	state    State
	drag     *drag
}

// New returns a Controller with no image loaded.
func New() *Controller {
	return &Controller{
		state: Fitted{},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	if c.state == nil {
		return Fitted{}
	}
	return c.state
}

// Viewport returns the viewport size from the last LoadImage.
func (c *Controller) Viewport() Size {
	return c.viewport
}

// Image returns the image size from the last LoadImage.
func (c *Controller) Image() Size {
	return c.image
}

// Dragging reports whether a drag sequence is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// LoadImage sets the viewport and image sizes and resets to Fitted.
func (c *Controller) LoadImage(viewport, image Size) {
	c.viewport = viewport
	c.image = image
	c.state = Fitted{}
	c.drag = nil
}

// ToggleZoom switches between Fitted and Zoomed. Any pan is discarded when
// returning to Fitted. It does nothing if no image is loaded.
func (c *Controller) ToggleZoom() {
	if c.image.Empty() {
		return
	}
	switch c.State().(type) {
	case Zoomed:
		c.state = Fitted{}
	default:
		c.state = Zoomed{Factor: ZoomFactor}
	}
	c.drag = nil
}

// BeginDrag records the start of a drag at p. It is ignored unless zoomed.
func (c *Controller) BeginDrag(p Point) {
	z, ok := c.State().(Zoomed)
	if !ok {
		return
	}
	c.drag = &drag{start: p, pan: z.Pan}
}

// ContinueDrag pans the image by the distance from the drag start to p. It is
// ignored unless zoomed with a drag in progress. The pan is not clamped to the
// viewport.
func (c *Controller) ContinueDrag(p Point) {
	z, ok := c.State().(Zoomed)
	if !ok || c.drag == nil {
		return
	}
	z.Pan = c.drag.pan.Add(p.Sub(c.drag.start))
	c.state = z
}

// EndDrag finishes the current drag sequence.
func (c *Controller) EndDrag() {
	c.drag = nil
}

// Transform returns the current image to viewport transform. If either the
// viewport or the image has no area the identity is returned.
func (c *Controller) Transform() f64.Aff3 {
	if c.viewport.Empty() || c.image.Empty() {
		return Identity()
	}
	switch s := c.State().(type) {
	case Zoomed:
		return multiply(translate(s.Pan.X, s.Pan.Y), zoom(c.viewport, c.image, s.Factor))
	default:
		return Fit(c.viewport, c.image)
	}
}

// FitScale returns the largest uniform scale at which image fits inside
// viewport, or 0 if either has no area.
func FitScale(viewport, image Size) float64 {
	if viewport.Empty() || image.Empty() {
		return 0
	}
	return math.Min(viewport.Width/image.Width, viewport.Height/image.Height)
}

// Fit returns the transform that scales image uniformly to fit inside
// viewport and centres it.
func Fit(viewport, image Size) f64.Aff3 {
	s := FitScale(viewport, image)
	if s == 0 {
		return Identity()
	}
	return multiply(
		translate((viewport.Width-image.Width*s)/2, (viewport.Height-image.Height*s)/2),
		scale(s, s),
	)
}

// zoom scales the image by f about its own centre and then offsets it by half
// the difference between the viewport and the zoomed image size.
func zoom(viewport, image Size, f float64) f64.Aff3 {
	return multiply(
		translate((viewport.Width-image.Width*f)/2, (viewport.Height-image.Height*f)/2),
		scaleAbout(f, Pt(image.Width/2, image.Height/2)),
	)
}

package view

import "golang.org/x/image/math/f64"

// Event is a gesture delivered to a Controller.
type Event interface {
	isEvent()
}

// Down is a pointer pressed at P.
type Down struct {
	P Point
}

// Move is a pointer moved to P while pressed.
type Move struct {
	P Point
}

// Up is a pointer released.
type Up struct{}

// DoubleTap is two taps in quick succession.
type DoubleTap struct{}

func (Down) isEvent()      {}
func (Move) isEvent()      {}
func (Up) isEvent()        {}
func (DoubleTap) isEvent() {}

// Handle dispatches e to the matching Controller operation and returns the
// resulting transform. Unknown events are ignored.
func (c *Controller) Handle(e Event) f64.Aff3 {
	switch e := e.(type) {
	case Down:
		c.BeginDrag(e.P)
	case Move:
		c.ContinueDrag(e.P)
	case Up:
		c.EndDrag()
	case DoubleTap:
		c.ToggleZoom()
	}
	return c.Transform()
}

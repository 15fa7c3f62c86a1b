/*
Package effect implements the per-pixel colour effects that can be applied to a
photo.

Each effect maps the red, green and blue samples of a pixel to new values in
the range 0-255. Alpha is never modified. The input image is left untouched and
a new image of the same size is always returned.
*/
package effect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for a nil image or an unknown effect.
var ErrInvalidArgument = errors.New("effect: invalid argument")

// Effect selects one of the available pixel transforms.
type Effect int

const (
	// Greyscale replaces each channel with the truncated average of the
	// three colour channels.
	Greyscale Effect = iota + 1
	// Invert replaces each channel c with 255 - c.
	Invert
)

type pixelFunc func(r, g, b uint8) (uint8, uint8, uint8)

func greyscale(r, g, b uint8) (uint8, uint8, uint8) {
	avg := uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
	return avg, avg, avg
}

func invert(r, g, b uint8) (uint8, uint8, uint8) {
	return 255 - r, 255 - g, 255 - b
}

var effects = map[Effect]struct {
	name string
	fn   pixelFunc
}{
	Greyscale: {"greyscale", greyscale},
	Invert:    {"invert", invert},
}

func (e Effect) String() string {
	if v, ok := effects[e]; ok {
		return v.name
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// ParseEffect returns the Effect with the given name.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greyscale", "grayscale":
		return Greyscale, nil
	case "invert":
		return Invert, nil
	}
	return 0, fmt.Errorf("%w: unknown effect %q", ErrInvalidArgument, s)
}

// Effects returns every known effect in a stable order.
func Effects() []Effect {
	return []Effect{Greyscale, Invert}
}

func lookup(e Effect) (pixelFunc, error) {
	v, ok := effects[e]
	if !ok {
		return nil, fmt.Errorf("%w: unknown effect %d", ErrInvalidArgument, int(e))
	}
	return v.fn, nil
}

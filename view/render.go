package view

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Render fills dst with bg, if not nil, and then draws src through the
// transform m using bilinear interpolation. m maps coordinates relative to the
// top-left corner of src onto dst.
func Render(dst draw.Image, src image.Image, m f64.Aff3, bg color.Color) {
	if bg != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	b := src.Bounds()
	if b.Empty() {
		return
	}
	if b.Min != (image.Point{}) {
		m = multiply(m, translate(-float64(b.Min.X), -float64(b.Min.Y)))
	}
	draw.ApproxBiLinear.Transform(dst, m, src, b, draw.Over, nil)
}

// RenderViewport renders src into a new w by h image using the transform of c.
func (c *Controller) RenderViewport(src image.Image, w, h int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	Render(dst, src, c.Transform(), bg)
	return dst
}

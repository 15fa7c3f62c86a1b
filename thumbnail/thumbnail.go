package thumbnail

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/bodgit/gallery/view"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

var errEmpty = errors.New("thumbnail: image is empty")

// Size returns the dimensions of the thumbnail for an image of the given
// size.
func Size(width, height int) (int, int) {
	s := view.FitScale(view.Sz(maxWidth, maxHeight), view.Sz(float64(width), float64(height)))
	if s == 0 {
		return 0, 0
	}
	if s > 1 {
		s = 1
	}
	w := int(math.Max(1, math.Round(float64(width)*s)))
	h := int(math.Max(1, math.Round(float64(height)*s)))
	return w, h
}

func scale(m image.Image) *image.RGBA {
	b := m.Bounds()
	w, h := Size(b.Dx(), b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

// Encode writes a thumbnail of the Image m to w.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return errEmpty
	}

	t := scale(m)

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(t.Bounds(), q.Quantize(make(color.Palette, 0, maxColors), t))
	draw.Draw(pm, pm.Bounds(), t, image.Point{}, draw.Src)

	e := png.Encoder{CompressionLevel: png.BestCompression}

	return e.Encode(w, pm)
}

// Decode reads a thumbnail from r.
func Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

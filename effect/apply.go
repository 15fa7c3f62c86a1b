package effect

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Apply returns a new image with the effect e applied to every pixel of m.
//
// *image.RGBA, *image.NRGBA, *image.Gray and *image.Paletted images keep their
// pixel format. Any other image is first converted to *image.NRGBA.
func Apply(m image.Image, e Effect) (image.Image, error) {
	fn, err := lookup(e)
	if err != nil {
		return nil, err
	}

	switch src := m.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	case *image.RGBA:
		if src == nil {
			return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
		}
		return applyRGBA(src, fn), nil
	case *image.NRGBA:
		if src == nil {
			return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
		}
		dst := image.NewNRGBA(src.Rect)
		applyNRGBA(dst, src, fn)
		return dst, nil
	case *image.Gray:
		if src == nil {
			return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
		}
		return applyGray(src, fn), nil
	case *image.Paletted:
		if src == nil {
			return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
		}
		return applyPaletted(src, fn), nil
	default:
		b := m.Bounds()
		dst := image.NewNRGBA(b)
		draw.Draw(dst, b, m, b.Min, draw.Src)
		applyNRGBA(dst, dst, fn)
		return dst, nil
	}
}

// applyNRGBA is safe to call with dst == src.
func applyNRGBA(dst, src *image.NRGBA, fn pixelFunc) {
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2] = fn(s[0], s[1], s[2])
			d[3] = s[3]
			si += 4
			di += 4
		}
	}
}

func applyRGBA(src *image.RGBA, fn pixelFunc) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]
			switch a := s[3]; a {
			case 0xff:
				d[0], d[1], d[2] = fn(s[0], s[1], s[2])
			case 0:
				// Fully transparent, colour is always zero
			default:
				// Colour is premultiplied, apply the effect to the
				// straight colour and premultiply again
				cr, cg, cb := fn(unpremultiply(s[0], a), unpremultiply(s[1], a), unpremultiply(s[2], a))
				d[0], d[1], d[2] = premultiply(cr, a), premultiply(cg, a), premultiply(cb, a)
			}
			d[3] = s[3]
			si += 4
			di += 4
		}
	}
	return dst
}

func unpremultiply(c, a uint8) uint8 {
	v := (uint32(c)*0xff + uint32(a)/2) / uint32(a)
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 0x7f) / 0xff)
}

func applyGray(src *image.Gray, fn pixelFunc) *image.Gray {
	dst := image.NewGray(src.Rect)
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Pix[di], _, _ = fn(src.Pix[si], src.Pix[si], src.Pix[si])
			si++
			di++
		}
	}
	return dst
}

// Palette entries are transformed rather than pixels, the indices are copied
// as-is.
func applyPaletted(src *image.Paletted, fn pixelFunc) *image.Paletted {
	p := make(color.Palette, len(src.Palette))
	for i, c := range src.Palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		n.R, n.G, n.B = fn(n.R, n.G, n.B)
		p[i] = n
	}
	dst := image.NewPaletted(src.Rect, p)
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(b.Min.X, y):], src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)])
	}
	return dst
}

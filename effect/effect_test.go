package effect

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomNRGBA(r *rand.Rand, w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(m.Pix)
	return m
}

func opaqueRGBA(r *rand.Rand, w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Read(m.Pix)
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = 0xff
	}
	return m
}

func TestParseEffect(t *testing.T) {
	tables := []struct {
		name   string
		effect Effect
	}{
		{"greyscale", Greyscale},
		{"grayscale", Greyscale},
		{" Invert ", Invert},
	}

	for _, table := range tables {
		e, err := ParseEffect(table.name)
		require.NoError(t, err)
		assert.Equal(t, table.effect, e)
	}

	_, err := ParseEffect("sepia")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, "greyscale", Greyscale.String())
	assert.Equal(t, "invert", Invert.String())
	assert.Equal(t, "Effect(7)", Effect(7).String())
}

func TestApplyInvalid(t *testing.T) {
	_, err := Apply(nil, Invert)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Apply((*image.RGBA)(nil), Invert)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Apply(image.NewRGBA(image.Rect(0, 0, 1, 1)), Effect(0))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestApplyPixel(t *testing.T) {
	tables := []struct {
		effect Effect
		in     color.NRGBA
		out    color.NRGBA
	}{
		{Greyscale, color.NRGBA{10, 20, 30, 0xff}, color.NRGBA{20, 20, 20, 0xff}},
		{Greyscale, color.NRGBA{255, 255, 254, 0x80}, color.NRGBA{254, 254, 254, 0x80}},
		{Greyscale, color.NRGBA{1, 1, 0, 0xff}, color.NRGBA{0, 0, 0, 0xff}},
		{Invert, color.NRGBA{0, 128, 255, 0x40}, color.NRGBA{255, 127, 0, 0x40}},
	}

	for _, table := range tables {
		m := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		m.SetNRGBA(0, 0, table.in)

		out, err := Apply(m, table.effect)
		require.NoError(t, err)
		require.IsType(t, &image.NRGBA{}, out)
		assert.Equal(t, table.out, out.(*image.NRGBA).NRGBAAt(0, 0))
		assert.Equal(t, table.in, m.NRGBAAt(0, 0), "input modified")
	}
}

func TestApplyEmpty(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 0, 0))
	out, err := Apply(m, Greyscale)
	require.NoError(t, err)
	assert.True(t, out.Bounds().Empty())
	assert.IsType(t, &image.RGBA{}, out)
}

func TestInvertRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	images := []image.Image{
		randomNRGBA(r, 17, 9),
		opaqueRGBA(r, 8, 13),
		image.NewGray(image.Rect(-3, -3, 5, 7)),
	}
	r.Read(images[2].(*image.Gray).Pix)

	for _, m := range images {
		once, err := Apply(m, Invert)
		require.NoError(t, err)
		assert.Equal(t, m.Bounds(), once.Bounds())
		assert.IsType(t, m, once)

		twice, err := Apply(once, Invert)
		require.NoError(t, err)
		assert.Equal(t, m, twice)
	}
}

func TestGreyscaleIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	m := randomNRGBA(r, 31, 7)

	once, err := Apply(m, Greyscale)
	require.NoError(t, err)

	g := once.(*image.NRGBA)
	for i := 0; i < len(g.Pix); i += 4 {
		assert.Equal(t, g.Pix[i], g.Pix[i+1])
		assert.Equal(t, g.Pix[i], g.Pix[i+2])
		assert.Equal(t, m.Pix[i+3], g.Pix[i+3])
	}

	twice, err := Apply(once, Greyscale)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplySubImage(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	m := opaqueRGBA(r, 10, 10)
	sub := m.SubImage(image.Rect(2, 3, 6, 8)).(*image.RGBA)

	out, err := Apply(sub, Invert)
	require.NoError(t, err)
	assert.Equal(t, sub.Bounds(), out.Bounds())

	for y := 3; y < 8; y++ {
		for x := 2; x < 6; x++ {
			s := sub.RGBAAt(x, y)
			d := out.(*image.RGBA).RGBAAt(x, y)
			assert.Equal(t, color.RGBA{255 - s.R, 255 - s.G, 255 - s.B, 0xff}, d)
		}
	}
}

func TestApplyPremultiplied(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	m.SetRGBA(0, 0, color.RGBA{0, 0, 0, 0})
	m.SetRGBA(1, 0, color.RGBA{0x40, 0x20, 0x00, 0x80})

	out, err := Apply(m, Invert)
	require.NoError(t, err)

	d := out.(*image.RGBA)
	assert.Equal(t, color.RGBA{0, 0, 0, 0}, d.RGBAAt(0, 0))

	c := d.RGBAAt(1, 0)
	assert.Equal(t, uint8(0x80), c.A)
	for _, v := range []uint8{c.R, c.G, c.B} {
		assert.LessOrEqual(t, v, c.A)
	}
}

func TestApplyPaletted(t *testing.T) {
	p := color.Palette{color.RGBA{0, 0, 0, 0xff}, color.RGBA{0xff, 0x80, 0x00, 0xff}}
	m := image.NewPaletted(image.Rect(0, 0, 2, 2), p)
	m.SetColorIndex(1, 1, 1)

	out, err := Apply(m, Invert)
	require.NoError(t, err)
	require.IsType(t, &image.Paletted{}, out)

	pm := out.(*image.Paletted)
	assert.Equal(t, m.Pix, pm.Pix)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, pm.Palette[0])
	assert.Equal(t, color.NRGBA{0x00, 0x7f, 0xff, 0xff}, pm.Palette[1])
	assert.Equal(t, color.RGBA{0xff, 0x80, 0x00, 0xff}, m.Palette[1], "input palette modified")
}

func TestApplyConverts(t *testing.T) {
	m := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio444)
	for i := range m.Y {
		m.Y[i] = 0x80
		m.Cb[i] = 0x80
		m.Cr[i] = 0x80
	}

	out, err := Apply(m, Greyscale)
	require.NoError(t, err)
	require.IsType(t, &image.NRGBA{}, out)
	assert.Equal(t, m.Bounds(), out.Bounds())

	c := out.(*image.NRGBA).NRGBAAt(0, 0)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.R, c.B)
	assert.Equal(t, uint8(0xff), c.A)
}

package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	tables := []struct {
		width, height int
		w, h          int
	}{
		{1024, 768, 128, 96},
		{768, 1024, 96, 128},
		{64, 32, 64, 32},
		{4000, 10, 128, 1},
		{0, 10, 0, 0},
	}

	for _, table := range tables {
		w, h := Size(table.width, table.height)
		assert.Equal(t, table.w, w, "%dx%d", table.width, table.height)
		assert.Equal(t, table.h, h, "%dx%d", table.width, table.height)
	}
}

func TestEncode(t *testing.T) {
	m := image.NewNRGBA(image.Rect(10, 10, 410, 210))
	for y := 10; y < 210; y++ {
		for x := 10; x < 410; x++ {
			c := color.NRGBA{0xff, 0x00, 0x00, 0xff}
			if x >= 210 {
				c = color.NRGBA{0x00, 0x00, 0xff, 0xff}
			}
			m.SetNRGBA(x, y, c)
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))

	out, err := Decode(b)
	require.NoError(t, err)
	require.IsType(t, &image.Paletted{}, out)

	assert.Equal(t, image.Rect(0, 0, 128, 64), out.Bounds())
	assert.LessOrEqual(t, len(out.(*image.Paletted).Palette), maxColors)

	r, _, bl, _ := out.At(10, 32).RGBA()
	assert.Greater(t, r, bl)
	r, _, bl, _ = out.At(118, 32).RGBA()
	assert.Greater(t, bl, r)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), image.NewRGBA(image.Rectangle{})))
}

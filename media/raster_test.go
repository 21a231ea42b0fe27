package media

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGray(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{255, 0, 0, 76},
		{0, 255, 0, 150},
		{0, 0, 255, 29},
		{255, 255, 255, 255},
		{0, 0, 0, 0},
	}
	for _, c := range cases {
		r := NewRaster(1, 1, 3)
		r.Set(0, 0, 0, c.r)
		r.Set(0, 0, 1, c.g)
		r.Set(0, 0, 2, c.b)
		assert.Equal(t, c.want, r.Gray().At(0, 0, 0), "rgb(%d,%d,%d)", c.r, c.g, c.b)
	}
}

func TestGraySingleChannel(t *testing.T) {
	r := NewRaster(4, 4, 1)
	assert.Same(t, r, r.Gray())
}

func TestNormalize(t *testing.T) {
	r := NewRaster(5, 1, 1)
	copy(r.Pix, []uint8{0, 1, 2, 128, 255})
	Normalize(r)
	assert.Equal(t, []uint8{0, 1, 1, 1, 1}, r.Pix)
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	r := FromImage(img)
	require.Equal(t, 3, r.W)
	require.Equal(t, 2, r.H)
	require.Equal(t, 3, r.Channels)
	assert.Equal(t, uint8(10), r.At(1, 1, 0))
	assert.Equal(t, uint8(20), r.At(1, 1, 1))
	assert.Equal(t, uint8(30), r.At(1, 1, 2))
}

package media

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c color.Color) *Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return NewImage(img)
}

// stepImage is black on the left half and white on the right half.
func stepImage(w, h int) *Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(color.White), image.Point{}, draw.Src)
	return NewImage(img)
}

func TestCannyBlank(t *testing.T) {
	out := uniformImage(32, 32, color.White).Canny(50, 150)
	require.Equal(t, 32, out.W)
	require.Equal(t, 32, out.H)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestCannyStep(t *testing.T) {
	out := stepImage(64, 32).Canny(50, 150)
	require.Equal(t, 64, out.W)
	require.Equal(t, 32, out.H)

	edges := 0
	for _, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatal("output is not binary:", v)
		}
		if v == 255 {
			edges++
		}
	}
	assert.NotZero(t, edges, "a sharp step must produce edge pixels")

	// all edge pixels hug the step, none appear in the flat halves
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			if out.At(x, y, 0) == 255 {
				assert.InDelta(t, 32, x, 4, "edge pixel at x=%d", x)
			}
		}
	}
}

func TestSobelFlat(t *testing.T) {
	out := uniformImage(16, 16, color.RGBA{R: 90, G: 90, B: 90, A: 255}).Sobel()
	for _, v := range out.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestSobelStep(t *testing.T) {
	out := stepImage(64, 32).Sobel()
	require.Equal(t, 64, out.W)
	require.Equal(t, 32, out.H)

	// strong response at the step
	assert.Greater(t, out.At(32, 16, 0), uint8(100))
	// nothing far away from it
	assert.Equal(t, uint8(0), out.At(5, 16, 0))
	assert.Equal(t, uint8(0), out.At(58, 16, 0))
}

package curves

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediagrapher/mediagrapher/media"
	"github.com/mediagrapher/mediagrapher/trace"
)

// squareMedia is a white canvas with a centered black square, the simplest
// image with a well-defined edge contour.
func squareMedia(w, h int) *media.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	sq := image.Rect(w/4, h/4, 3*w/4, 3*h/4)
	draw.Draw(img, sq, image.NewUniform(color.Black), image.Point{}, draw.Src)
	return media.NewImage(img)
}

func blankMedia(w, h int) *media.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return media.NewImage(img)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("Canny")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmCanny, a)

	a, err = ParseAlgorithm("Sobel")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmSobel, a)

	for _, name := range []string{"lorem", "ipsum", "", "canny"} {
		_, err := ParseAlgorithm(name)
		assert.ErrorIs(t, err, ErrInvalidAlgorithm, "name %q", name)
	}
}

func TestNewInvalidAlgorithm(t *testing.T) {
	_, err := New(squareMedia(64, 64), Config{Algorithm: Algorithm(99)})
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)
}

func TestNewInvalidThresholds(t *testing.T) {
	cases := []struct{ low, high int }{
		{150, 50},
		{100, 100},
		{-1, 100},
		{30, 300},
	}
	for _, c := range cases {
		cfg := Config{Algorithm: AlgorithmCanny, LowThreshold: c.low, HighThreshold: c.high}
		_, err := New(squareMedia(64, 64), cfg)
		assert.ErrorIs(t, err, ErrInvalidParameter, "thresholds (%d,%d)", c.low, c.high)
	}
}

func TestNewCannySquare(t *testing.T) {
	c, err := New(squareMedia(200, 200), Config{
		Algorithm:     AlgorithmCanny,
		LowThreshold:  30,
		HighThreshold: 150,
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.Path())

	// Every corner contributes two control polygons, every smooth segment
	// one.
	want := 0
	for _, cur := range c.Path() {
		require.NotEmpty(t, cur.Segments)
		for _, seg := range cur.Segments {
			if seg.Kind == trace.Corner {
				want += 2
			} else {
				want++
			}
		}
	}
	segs := c.Segments()
	assert.Len(t, segs, want)

	coords, err := c.Coordinates(DefaultLinspace)
	require.NoError(t, err)
	assert.Len(t, coords, len(segs))
	for _, sc := range coords {
		require.Len(t, sc.Xs, DefaultLinspace)
		require.Len(t, sc.Ys, DefaultLinspace)
		for i := range sc.Xs {
			assert.False(t, math.IsNaN(sc.Xs[i]) || math.IsNaN(sc.Ys[i]))
		}
	}
}

func TestNewSobelSquare(t *testing.T) {
	c, err := New(squareMedia(200, 200), Config{Algorithm: AlgorithmSobel})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Path())
}

func TestNewBlankImage(t *testing.T) {
	c, err := New(blankMedia(64, 64), DefaultConfig)
	require.NoError(t, err)
	assert.Empty(t, c.Path())
	assert.Empty(t, c.Segments())
	coords, err := c.Coordinates(DefaultLinspace)
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestNewDeterministic(t *testing.T) {
	cfg := Config{Algorithm: AlgorithmCanny, LowThreshold: 30, HighThreshold: 150}
	a, err := New(squareMedia(120, 90), cfg)
	require.NoError(t, err)
	b, err := New(squareMedia(120, 90), cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Path(), b.Path())
	assert.Equal(t, a.Segments(), b.Segments())
}

// cornerRing is a hand-built unit square of four corner segments; the
// expected control polygons are known exactly.
func cornerRing() *Curves {
	p := func(x, y float64) trace.Point { return trace.Point{X: x, Y: y} }
	return &Curves{path: []trace.Curve{{
		Sign: +1,
		Segments: []trace.Segment{
			{Kind: trace.Corner, C: p(10, 0), End: p(10, 5)},
			{Kind: trace.Corner, C: p(10, 10), End: p(5, 10)},
			{Kind: trace.Corner, C: p(0, 10), End: p(0, 5)},
			{Kind: trace.Corner, C: p(0, 0), End: p(5, 0)},
		},
	}}}
}

func TestSegmentsCornerRing(t *testing.T) {
	segs := cornerRing().Segments()
	require.Len(t, segs, 8)
	for _, s := range segs {
		require.Len(t, s, 2)
	}
	// chained: the ring starts at the last segment's endpoint
	assert.Equal(t, trace.Point{X: 5, Y: 0}, segs[0][0])
	assert.Equal(t, trace.Point{X: 10, Y: 0}, segs[0][1])
	assert.Equal(t, trace.Point{X: 10, Y: 0}, segs[1][0])
	assert.Equal(t, trace.Point{X: 10, Y: 5}, segs[1][1])
	// each line starts where the previous one ended
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1][len(segs[i-1])-1], segs[i][0])
	}
}

func TestSegmentsSmooth(t *testing.T) {
	p := func(x, y float64) trace.Point { return trace.Point{X: x, Y: y} }
	c := &Curves{path: []trace.Curve{{
		Sign: +1,
		Segments: []trace.Segment{
			{Kind: trace.Smooth, C1: p(1, 0), C2: p(2, 0), End: p(3, 0)},
			{Kind: trace.Corner, C: p(3, 3), End: p(0, 3)},
			{Kind: trace.Smooth, C1: p(-1, 2), C2: p(-1, 1), End: p(0, 0)},
		},
	}}}
	segs := c.Segments()
	require.Len(t, segs, 4)
	require.Len(t, segs[0], 4)
	require.Len(t, segs[1], 2)
	require.Len(t, segs[2], 2)
	require.Len(t, segs[3], 4)
	// the first smooth segment starts at the curve start, End of the last
	assert.Equal(t, p(0, 0), segs[0][0])
	assert.Equal(t, p(3, 0), segs[1][0])
	assert.Equal(t, p(0, 3), segs[3][0])
}

func TestCoordinatesCornerRing(t *testing.T) {
	coords, err := cornerRing().Coordinates(3)
	require.NoError(t, err)
	require.Len(t, coords, 8)
	// first line: (5,0) -> (10,0) sampled at t = 0, 0.5, 1
	assert.InDeltaSlice(t, []float64{5, 7.5, 10}, coords[0].Xs, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, coords[0].Ys, 1e-12)
	// second line: (10,0) -> (10,5)
	assert.InDeltaSlice(t, []float64{10, 10, 10}, coords[1].Xs, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 2.5, 5}, coords[1].Ys, 1e-12)
}

func TestCoordinatesSmoothMatchesBezier(t *testing.T) {
	p := func(x, y float64) trace.Point { return trace.Point{X: x, Y: y} }
	start, c1, c2, end := p(0, 0), p(0, 4), p(4, 4), p(4, 0)
	c := &Curves{path: []trace.Curve{{
		Sign: +1,
		Segments: []trace.Segment{
			{Kind: trace.Smooth, C1: c1, C2: c2, End: end},
			{Kind: trace.Corner, C: p(2, -2), End: start},
		},
	}}}
	const n = 5
	coords, err := c.Coordinates(n)
	require.NoError(t, err)
	require.Len(t, coords, 3)
	for i := 0; i < n; i++ {
		tt := float64(i) / float64(n-1)
		assert.InDelta(t, CubicBezier(start.X, c1.X, c2.X, end.X, tt), coords[0].Xs[i], 1e-12)
		assert.InDelta(t, CubicBezier(start.Y, c1.Y, c2.Y, end.Y, tt), coords[0].Ys[i], 1e-12)
	}
}

func TestCoordinatesInvalidLinspace(t *testing.T) {
	c := cornerRing()
	for _, n := range []int{1, 0, -3} {
		_, err := c.Coordinates(n)
		assert.ErrorIs(t, err, ErrInvalidParameter, "linspace %d", n)
	}
}

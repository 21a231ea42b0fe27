// Package curves runs the edge-to-curve pipeline: it detects edges in a
// media source, traces the resulting binary mask into closed vector paths,
// and reconstructs renderable segments or densely sampled coordinates from
// the traced curves.
package curves

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mediagrapher/mediagrapher/media"
	"github.com/mediagrapher/mediagrapher/trace"
)

// Algorithm selects the edge-detection preprocessing step.
type Algorithm int

const (
	// AlgorithmCanny is Gaussian blur plus hysteresis edge detection; it
	// requires a low/high threshold pair.
	AlgorithmCanny Algorithm = iota + 1
	// AlgorithmSobel is Gaussian blur plus an equally weighted Sobel
	// gradient magnitude; it takes no thresholds.
	AlgorithmSobel
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmCanny:
		return "Canny"
	case AlgorithmSobel:
		return "Sobel"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm converts an algorithm name, as supplied by a CLI or GUI,
// into an Algorithm. Unknown names fail with ErrInvalidAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "Canny":
		return AlgorithmCanny, nil
	case "Sobel":
		return AlgorithmSobel, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
}

// DefaultLinspace is the default sample density for Coordinates.
const DefaultLinspace = 50

// Config selects the detection algorithm and tracing parameters for a Curves
// construction.
type Config struct {
	Algorithm Algorithm

	// Hysteresis thresholds, used by Canny only. 0 <= Low < High <= 255.
	LowThreshold  int
	HighThreshold int

	// TraceParams override the tracer defaults when non-nil.
	TraceParams *trace.Params
}

// DefaultConfig is Canny detection with the 50/150 threshold pair.
var DefaultConfig = Config{
	Algorithm:     AlgorithmCanny,
	LowThreshold:  50,
	HighThreshold: 150,
}

// Curves is a collection of closed vector curves extracted from a media
// source. It is immutable after construction and safe for concurrent reads.
type Curves struct {
	path []trace.Curve
}

// New detects edges in the media with the configured algorithm, normalizes
// the mask to strict binary, and traces it. An image without any edge pixels
// yields an empty (but valid) Curves.
func New(m media.Media, cfg Config) (*Curves, error) {
	var mask *media.Raster
	switch cfg.Algorithm {
	case AlgorithmCanny:
		low, high := cfg.LowThreshold, cfg.HighThreshold
		if low < 0 || high > 255 || low >= high {
			return nil, fmt.Errorf("%w: Canny thresholds (%d,%d) must satisfy 0 <= low < high <= 255",
				ErrInvalidParameter, low, high)
		}
		mask = m.Canny(low, high)
	case AlgorithmSobel:
		mask = m.Sobel()
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, cfg.Algorithm)
	}

	media.Normalize(mask)
	path, err := trace.Trace(trace.FromRaster(mask), cfg.TraceParams)
	if err != nil {
		return nil, fmt.Errorf("trace mask: %w", err)
	}
	return &Curves{path: path}, nil
}

// Path returns the traced curves in traced order.
func (c *Curves) Path() []trace.Curve {
	return c.path
}

// RenderSegment is a control polygon ready for drawing: two points describe
// a straight line, four points a cubic Bezier curve.
type RenderSegment []trace.Point

// Segments flattens the traced path into an ordered list of control
// polygons. A corner segment contributes two 2-point lines meeting at its
// control point; a smooth segment contributes one 4-point Bezier tuple.
func (c *Curves) Segments() []RenderSegment {
	var out []RenderSegment
	for _, cur := range c.path {
		start := cur.Start()
		for _, seg := range cur.Segments {
			if seg.Kind == trace.Corner {
				out = append(out,
					RenderSegment{start, seg.C},
					RenderSegment{seg.C, seg.End})
			} else {
				out = append(out, RenderSegment{start, seg.C1, seg.C2, seg.End})
			}
			start = seg.End
		}
	}
	return out
}

// SampledCurve is one flattened sub-segment: equal-length x and y coordinate
// sequences.
type SampledCurve struct {
	Xs, Ys []float64
}

// Coordinates samples every traced segment at linspace evenly spaced
// parameter values in [0,1], both endpoints included. A corner segment
// yields two sampled lines, a smooth segment one sampled Bezier curve.
// linspace must be at least 2.
func (c *Curves) Coordinates(linspace int) ([]SampledCurve, error) {
	if linspace < 2 {
		return nil, fmt.Errorf("%w: linspace must be at least 2, got %d",
			ErrInvalidParameter, linspace)
	}
	ts := floats.Span(make([]float64, linspace), 0, 1)

	var out []SampledCurve
	for _, cur := range c.path {
		start := cur.Start()
		for _, seg := range cur.Segments {
			if seg.Kind == trace.Corner {
				out = append(out,
					sampleLinear(start, seg.C, ts),
					sampleLinear(seg.C, seg.End, ts))
			} else {
				out = append(out, sampleCubic(start, seg.C1, seg.C2, seg.End, ts))
			}
			start = seg.End
		}
	}
	return out, nil
}

func sampleLinear(p0, p1 trace.Point, ts []float64) SampledCurve {
	s := SampledCurve{
		Xs: make([]float64, len(ts)),
		Ys: make([]float64, len(ts)),
	}
	for i, t := range ts {
		s.Xs[i] = LinearBezier(p0.X, p1.X, t)
		s.Ys[i] = LinearBezier(p0.Y, p1.Y, t)
	}
	return s
}

func sampleCubic(p0, c1, c2, p1 trace.Point, ts []float64) SampledCurve {
	s := SampledCurve{
		Xs: make([]float64, len(ts)),
		Ys: make([]float64, len(ts)),
	}
	for i, t := range ts {
		s.Xs[i] = CubicBezier(p0.X, c1.X, c2.X, p1.X, t)
		s.Ys[i] = CubicBezier(p0.Y, c1.Y, c2.Y, p1.Y, t)
	}
	return s
}

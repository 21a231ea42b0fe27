// Package trace converts a binary bitmap into closed vector paths composed
// of corner and cubic Bezier segments, using the potrace algorithm
// (http://potrace.sourceforge.net/potracelib.pdf): path decomposition,
// straight-subpath analysis, optimal polygon, vertex adjustment, corner and
// smoothness analysis, and optional curve optimization.
package trace

// Point is a point on a 2D plane.
type Point struct {
	X, Y float64
}

// SegmentKind distinguishes the two segment shapes a traced curve can hold.
type SegmentKind int

const (
	// Corner is rendered as two straight lines meeting at the control
	// point C.
	Corner SegmentKind = iota + 1
	// Smooth is rendered as a cubic Bezier curve through the control
	// points C1 and C2.
	Smooth
)

// Segment is one step of a closed curve. Its start point is the previous
// segment's End (the curve's start point for the first segment).
type Segment struct {
	Kind SegmentKind
	C    Point // control point when Kind == Corner
	C1   Point // first Bezier control point when Kind == Smooth
	C2   Point // second Bezier control point when Kind == Smooth
	End  Point
}

// Curve is a closed path. Consecutive segments chain end to start, and the
// last segment's end point closes the path at the curve start.
type Curve struct {
	// Area is the number of pixels enclosed by the path, used for
	// despeckling.
	Area int
	// Sign is +1 for a filled (outer) path and -1 for a hole.
	Sign int

	Segments []Segment
}

// Start returns the curve's declared start point, which equals the last
// segment's end point since the path is closed.
func (c Curve) Start() Point {
	if len(c.Segments) == 0 {
		return Point{}
	}
	return c.Segments[len(c.Segments)-1].End
}

// Supported turn policies.
const (
	TurnBlack    = TurnPolicy(0)
	TurnWhite    = TurnPolicy(1)
	TurnLeft     = TurnPolicy(2)
	TurnRight    = TurnPolicy(3)
	TurnMinority = TurnPolicy(4)
	TurnMajority = TurnPolicy(5)
	TurnRandom   = TurnPolicy(6)
)

// TurnPolicy resolves ambiguous turns during path decomposition.
type TurnPolicy int

// Params is a set of tracing parameters.
type Params struct {
	TurdSize     int // drop paths enclosing at most this many pixels
	TurnPolicy   TurnPolicy
	AlphaMax     float64 // corner threshold; smaller values produce more corners
	OptiCurve    bool    // merge adjacent Bezier segments where possible
	OptTolerance float64
}

// Defaults holds the default tracing parameters.
var Defaults = Params{
	TurdSize:     2,
	TurnPolicy:   TurnMinority,
	AlphaMax:     1.0,
	OptiCurve:    true,
	OptTolerance: 0.2,
}

// Trace decomposes the bitmap into closed curves using the given parameters.
// If params is nil, Defaults are used. An empty bitmap yields no curves and
// no error.
func Trace(bm *Bitmap, param *Params) ([]Curve, error) {
	if param == nil {
		param = &Defaults
	}
	return bm.toCurves(param)
}

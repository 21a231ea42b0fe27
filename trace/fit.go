package trace

import (
	"errors"
	"math"
)

// Polygon-to-curve fitting: turn a decomposed pixel-boundary path into a
// closed curve of corner and smooth segments (potracelib.pdf, Sec. 2.2-2.4).

const (
	cINFTY  = 10000000        // longer than any path; need not be really infinite
	cCOS179 = -0.999847695156 // the cosine of 179 degrees
)

// fitSegment is a curve segment during fitting. pnt carries the control and
// end points in potrace order: for a corner pnt[1] is the control point and
// pnt[2] the end point; for a Bezier pnt[0] and pnt[1] are the controls and
// pnt[2] the end point.
type fitSegment struct {
	kind SegmentKind
	pnt  [3]Point

	vertex Point
	alpha  float64
	alpha0 float64
	beta   float64
}

type fitCurve struct {
	seg []fitSegment
}

func newFitCurve(n int) fitCurve {
	return fitCurve{seg: make([]fitSegment, n)}
}

// toSegments converts the fitted representation into the public curve model.
func (c *fitCurve) toSegments() []Segment {
	out := make([]Segment, len(c.seg))
	for i, s := range c.seg {
		seg := Segment{Kind: s.kind, End: s.pnt[2]}
		if s.kind == Corner {
			seg.C = s.pnt[1]
		} else {
			seg.C1 = s.pnt[0]
			seg.C2 = s.pnt[1]
		}
		out[i] = seg
	}
	return out
}

// fitPath accumulates per-path state as it passes through the fitting
// stages.
type fitPath struct {
	pt  []ipoint // path as extracted from the bitmap
	lon []int    // (i,lon[i]) = longest straight line from i

	orig ipoint     // origin for sums
	sums []pathSums // cache for fast summing, len(pt)+1 entries

	po []int // optimal polygon

	curve  fitCurve // fitted curve
	ocurve fitCurve // optimized curve
}

type pathSums struct {
	x, y       int
	x2, xy, y2 int
}

// fitOnePath runs the fitting stages over one decomposed path.
func fitOnePath(pts []ipoint, sign int, param *Params) (Curve, error) {
	fp := &fitPath{pt: pts}
	fp.calcSums()
	fp.calcLon()
	fp.bestPolygon()
	fp.adjustVertices()
	if sign == -1 { // reverse orientation of negative paths
		fp.curve.reverse()
	}
	fp.curve.smooth(param.AlphaMax)

	final := &fp.curve
	if param.OptiCurve {
		if err := fp.optiCurve(param.OptTolerance); err != nil {
			return Curve{}, err
		}
		final = &fp.ocurve
	}
	return Curve{Sign: sign, Segments: final.toSegments()}, nil
}

// calcSums fills in the sums cache used for rapid range summing.
func (fp *fitPath) calcSums() {
	fp.sums = make([]pathSums, len(fp.pt)+1)
	fp.orig = fp.pt[0]
	for i, p := range fp.pt {
		x := p.X - fp.orig.X
		y := p.Y - fp.orig.Y
		fp.sums[i+1].x = fp.sums[i].x + x
		fp.sums[i+1].y = fp.sums[i].y + y
		fp.sums[i+1].x2 = fp.sums[i].x2 + x*x
		fp.sums[i+1].xy = fp.sums[i].xy + x*y
		fp.sums[i+1].y2 = fp.sums[i].y2 + y*y
	}
}

// pointslope determines the center and slope of the line i..j. Assumes i<j
// and the sums cache is filled.
func (fp *fitPath) pointslope(i, j int) (ctr, dir Point) {
	n := len(fp.pt)
	sums := fp.sums
	r := 0 // rotations from i to j

	for j >= n {
		j -= n
		r++
	}
	for i >= n {
		i -= n
		r--
	}
	for j < 0 {
		j += n
		r--
	}
	for i < 0 {
		i += n
		r++
	}

	x := float64(sums[j+1].x - sums[i].x + r*sums[n].x)
	y := float64(sums[j+1].y - sums[i].y + r*sums[n].y)
	x2 := float64(sums[j+1].x2 - sums[i].x2 + r*sums[n].x2)
	xy := float64(sums[j+1].xy - sums[i].xy + r*sums[n].xy)
	y2 := float64(sums[j+1].y2 - sums[i].y2 + r*sums[n].y2)
	k := float64(j + 1 - i + r*n)

	ctr.X = x / k
	ctr.Y = y / k

	a := (x2 - x*x/k) / k
	b := (xy - x*y/k) / k
	c := (y2 - y*y/k) / k

	lambda2 := (a + c + math.Sqrt((a-c)*(a-c)+4*b*b)) / 2 // larger eigenvalue

	// the eigenvector for lambda2
	a -= lambda2
	c -= lambda2

	var l float64
	if math.Abs(a) >= math.Abs(c) {
		l = math.Sqrt(a*a + b*b)
		if l != 0 {
			dir.X = -b / l
			dir.Y = a / l
		}
	} else {
		l = math.Sqrt(c*c + b*b)
		if l != 0 {
			dir.X = -c / l
			dir.Y = b / l
		}
	}
	if l == 0 {
		// the two eigenvalues coincide; this can happen when k=4
		dir.X, dir.Y = 0, 0
	}
	return
}

// Stage 1: determine the straight subpaths (Sec. 2.2.1). For each i, lon[i]
// is the furthest index such that a straight line can be drawn from i to
// lon[i].
//
// The algorithm depends on the fact that straight subpaths are a triplewise
// property: a line exists through squares i0..in iff one exists through
// i,j,k for all i0<=i<j<k<=in. A "constraint" means that future points must
// satisfy xprod(constraint[0], cur) >= 0 and xprod(constraint[1], cur) <= 0.
// Constraints only need checking at "corner" points, which keeps this O(n^2).
func (fp *fitPath) calcLon() {
	pt := fp.pt
	n := len(pt)
	var (
		pivk = make([]int, n)
		nc   = make([]int, n) // next corner
	)

	// Initialize nc: point from each point to the furthest future point
	// connected to it by a vertical or horizontal segment. There is always a
	// direction change at 0 due to the decomposition.
	k := 0
	for i := n - 1; i >= 0; i-- {
		if pt[i].X != pt[k].X && pt[i].Y != pt[k].Y {
			k = i + 1 // necessarily i<n-1 in this case
		}
		nc[i] = k
	}

	fp.lon = make([]int, n)

	// determine pivot points: for each i, let pivk[i] be the furthest k such
	// that all j with i<j<k lie on a line connecting i,k.
	var (
		ct         [4]int
		constraint [2]ipoint
		cur, off   ipoint
		dk         ipoint
		j          int

		a, b, c, d int
	)
	for i := n - 1; i >= 0; i-- {
		ct[0], ct[1], ct[2], ct[3] = 0, 0, 0, 0

		// keep track of "directions" that have occurred
		dir := (3 + 3*(pt[mod(i+1, n)].X-pt[i].X) + (pt[mod(i+1, n)].Y - pt[i].Y)) / 2
		ct[dir]++

		constraint[0] = ipoint{}
		constraint[1] = ipoint{}

		// find the next k such that no straight line runs from i to k
		k = nc[i]
		k1 := i
		for {
			dir = (3 + 3*isign(pt[k].X-pt[k1].X) + isign(pt[k].Y-pt[k1].Y)) / 2
			ct[dir]++

			// if all four "directions" have occurred, cut this path
			if ct[0] != 0 && ct[1] != 0 && ct[2] != 0 && ct[3] != 0 {
				pivk[i] = k1
				goto foundk
			}

			cur.X = pt[k].X - pt[i].X
			cur.Y = pt[k].Y - pt[i].Y

			// see if the current constraint is violated
			if xprod(constraint[0], cur) < 0 || xprod(constraint[1], cur) > 0 {
				goto constraintViolated
			}

			// else, update the constraint
			if absInt(cur.X) <= 1 && absInt(cur.Y) <= 1 {
				// no constraint
			} else {
				if cur.Y >= 0 && (cur.Y > 0 || cur.X < 0) {
					off.X = cur.X + 1
				} else {
					off.X = cur.X - 1
				}
				if cur.X <= 0 && (cur.X < 0 || cur.Y < 0) {
					off.Y = cur.Y + 1
				} else {
					off.Y = cur.Y - 1
				}
				if xprod(constraint[0], off) >= 0 {
					constraint[0] = off
				}
				if cur.Y <= 0 && (cur.Y < 0 || cur.X < 0) {
					off.X = cur.X + 1
				} else {
					off.X = cur.X - 1
				}
				if cur.X >= 0 && (cur.X > 0 || cur.Y < 0) {
					off.Y = cur.Y + 1
				} else {
					off.Y = cur.Y - 1
				}
				if xprod(constraint[1], off) <= 0 {
					constraint[1] = off
				}
			}
			k1 = k
			k = nc[k1]
			if !cyclic(k, i, k1) {
				break
			}
		}
	constraintViolated:
		// k1 was the last "corner" satisfying the current constraint, and k
		// is the first one violating it. Find the last point along k1..k
		// which still satisfied it: the largest integer j such that
		// xprod(constraint[0], cur+j*dk) >= 0 and
		// xprod(constraint[1], cur+j*dk) <= 0, by bilinearity of xprod.
		dk.X = isign(pt[k].X - pt[k1].X)
		dk.Y = isign(pt[k].Y - pt[k1].Y)
		cur.X = pt[k1].X - pt[i].X
		cur.Y = pt[k1].Y - pt[i].Y

		a = xprod(constraint[0], cur)
		b = xprod(constraint[0], dk)
		c = xprod(constraint[1], cur)
		d = xprod(constraint[1], dk)
		// largest j with a+j*b>=0 and c+j*d<=0, in integer arithmetic
		j = cINFTY
		if b < 0 {
			j = floordiv(a, -b)
		}
		if d > 0 {
			j = min(j, floordiv(-c, d))
		}
		pivk[i] = mod(k1+j, n)
	foundk:
	}

	// clean up: for each i, let lon[i] be the largest k such that for all i'
	// with i<=i'<k, i'<k<=pivk[i'].
	j = pivk[n-1]
	fp.lon[n-1] = j
	for i := n - 2; i >= 0; i-- {
		if cyclic(i+1, pivk[i], j) {
			j = pivk[i]
		}
		fp.lon[i] = j
	}

	for i := n - 1; cyclic(mod(i+1, n), j, fp.lon[i]); i-- {
		fp.lon[i] = j
	}
}

// Stage 2: calculate the optimal polygon (Sec. 2.2.2-2.2.4).

// penalty calculates the penalty of an edge from i to j. Needs the lon and
// sums data.
func (fp *fitPath) penalty(i, j int) float64 {
	r := 0 // rotations from i to j
	sums, pt := fp.sums, fp.pt
	n := len(pt)

	if j >= n {
		j -= n
		r = 1
	}

	var x, y, x2, xy, y2, k float64
	// critical inner loop: the "if" avoids the wraparound arithmetic in the
	// common case
	if r == 0 {
		x = float64(sums[j+1].x - sums[i].x)
		y = float64(sums[j+1].y - sums[i].y)
		x2 = float64(sums[j+1].x2 - sums[i].x2)
		xy = float64(sums[j+1].xy - sums[i].xy)
		y2 = float64(sums[j+1].y2 - sums[i].y2)
		k = float64(j + 1 - i)
	} else {
		x = float64(sums[j+1].x - sums[i].x + sums[n].x)
		y = float64(sums[j+1].y - sums[i].y + sums[n].y)
		x2 = float64(sums[j+1].x2 - sums[i].x2 + sums[n].x2)
		xy = float64(sums[j+1].xy - sums[i].xy + sums[n].xy)
		y2 = float64(sums[j+1].y2 - sums[i].y2 + sums[n].y2)
		k = float64(j + 1 - i + n)
	}

	px := float64(pt[i].X+pt[j].X)/2.0 - float64(pt[0].X)
	py := float64(pt[i].Y+pt[j].Y)/2.0 - float64(pt[0].Y)
	ey := float64(pt[j].X - pt[i].X)
	ex := -float64(pt[j].Y - pt[i].Y)

	a := (x2-2*x*px)/k + px*px
	b := (xy-x*py-y*px)/k + px*py
	c := (y2-2*y*py)/k + py*py

	s := ex*ex*a + 2*ex*ey*b + ey*ey*c

	return math.Sqrt(s)
}

// bestPolygon finds the optimal polygon, filling in the po component.
// Non-cyclic version: assumes i=0 is in the polygon.
func (fp *fitPath) bestPolygon() {
	n := len(fp.pt)
	var (
		pen     = make([]float64, n+1) // penalty vector
		prev    = make([]int, n+1)     // best path pointer vector
		clip0   = make([]int, n)       // longest segment pointer, non-cyclic
		clip1   = make([]int, n+1)     // backwards segment pointer, non-cyclic
		seg0    = make([]int, n+1)     // forward segment bounds, m<=n
		seg1    = make([]int, n+1)     // backward segment bounds, m<=n
		thispen float64
		best    float64
		c       int
	)

	// calculate clipped paths
	for i := 0; i < n; i++ {
		c = mod(fp.lon[mod(i-1, n)]-1, n)
		if c == i {
			c = mod(i+1, n)
		}
		if c < i {
			clip0[i] = n
		} else {
			clip0[i] = c
		}
	}

	// calculate backwards path clipping, non-cyclic. j <= clip0[i] iff
	// clip1[j] <= i, for i,j=0..n.
	j := 1
	for i := 0; i < n; i++ {
		for j <= clip0[i] {
			clip1[j] = i
			j++
		}
	}

	// calculate seg0[j] = longest path from 0 with j segments
	i := 0
	for j = 0; i < n; j++ {
		seg0[j] = i
		i = clip0[i]
	}
	seg0[j] = n
	m := j

	// calculate seg1[j] = longest path to n with m-j segments
	i = n
	for j = m; j > 0; j-- {
		seg1[j] = i
		i = clip1[i]
	}
	seg1[0] = 0

	// Find the shortest path with m segments based on the penalty. The outer
	// two loops jointly have at most n iterations, so the worst case is
	// quadratic; in practice the inner loop is short.
	pen[0] = 0
	for j = 1; j <= m; j++ {
		for i = seg1[j]; i <= seg0[j]; i++ {
			best = -1
			for k := seg0[j-1]; k >= clip1[i]; k-- {
				thispen = fp.penalty(k, i) + pen[k]
				if best < 0 || thispen < best {
					prev[i] = k
					best = thispen
				}
			}
			pen[i] = best
		}
	}

	fp.po = make([]int, m)

	// read off the shortest path
	for i, j = n, m-1; i > 0; j-- {
		i = prev[i]
		fp.po[j] = i
	}
}

// Stage 3: vertex adjustment (Sec. 2.3.1).

// adjustVertices computes the intersection of each pair of "optimal" line
// segments, moved into the unit square around the polygon vertex when it
// lies outside.
func (fp *fitPath) adjustVertices() {
	po := fp.po
	m := len(po)
	pt := fp.pt
	n := len(pt)
	x0, y0 := fp.orig.X, fp.orig.Y

	var (
		ctr = make([]Point, m)
		dir = make([]Point, m)
		q   = make([]quadForm, m)
		v   [3]float64
		s   Point
	)

	fp.curve = newFitCurve(m)

	// calculate the "optimal" point-slope representation for each line
	// segment
	for i := 0; i < m; i++ {
		j := po[mod(i+1, m)]
		j = mod(j-po[i], n) + po[i]
		ctr[i], dir[i] = fp.pointslope(po[i], j)
	}

	// represent each line segment as a singular quadratic form: the distance
	// of a point (x,y) from the segment is (x,y,1)Q(x,y,1)^t with Q=q[i].
	for i := 0; i < m; i++ {
		d := dir[i].X*dir[i].X + dir[i].Y*dir[i].Y
		if d == 0.0 {
			for j := 0; j < 3; j++ {
				for k := 0; k < 3; k++ {
					q[i][j][k] = 0
				}
			}
		} else {
			v[0] = dir[i].Y
			v[1] = -dir[i].X
			v[2] = -v[1]*ctr[i].Y - v[0]*ctr[i].X
			for l := 0; l < 3; l++ {
				for k := 0; k < 3; k++ {
					q[i][l][k] = v[l] * v[k] / d
				}
			}
		}
	}

	// Calculate the "intersections" of consecutive segments. Instead of the
	// actual intersection, find the point within the unit square which
	// minimizes the square distance to the two lines.
	for i := 0; i < m; i++ {
		var (
			Q           quadForm
			w           Point
			dx, dy, det float64
			min_, cand  float64
			xmin, ymin  float64 // coordinates of minimum
			z           int
		)

		// let s be the vertex, in coordinates relative to x0/y0
		s.X = float64(pt[po[i]].X - x0)
		s.Y = float64(pt[po[i]].Y - y0)

		// intersect segments i-1 and i
		j := mod(i-1, m)

		// add the quadratic forms
		for l := 0; l < 3; l++ {
			for k := 0; k < 3; k++ {
				Q[l][k] = q[j][l][k] + q[i][l][k]
			}
		}

		for {
			// minimize the quadratic form Q on the unit square

			det = Q[0][0]*Q[1][1] - Q[0][1]*Q[1][0]
			if det != 0.0 {
				w.X = (-Q[0][2]*Q[1][1] + Q[1][2]*Q[0][1]) / det
				w.Y = (Q[0][2]*Q[1][0] - Q[1][2]*Q[0][0]) / det
				break
			}

			// matrix is singular: the lines are parallel. Add another,
			// orthogonal axis through the center of the unit square.
			if Q[0][0] > Q[1][1] {
				v[0] = -Q[0][1]
				v[1] = Q[0][0]
			} else if Q[1][1] != 0 {
				v[0] = -Q[1][1]
				v[1] = Q[1][0]
			} else {
				v[0] = 1
				v[1] = 0
			}
			d := v[0]*v[0] + v[1]*v[1]
			v[2] = -v[1]*s.Y - v[0]*s.X
			for l := 0; l < 3; l++ {
				for k := 0; k < 3; k++ {
					Q[l][k] += v[l] * v[k] / d
				}
			}
		}
		dx = math.Abs(w.X - s.X)
		dy = math.Abs(w.Y - s.Y)
		if dx <= .5 && dy <= .5 {
			fp.curve.seg[i].vertex.X = w.X + float64(x0)
			fp.curve.seg[i].vertex.Y = w.Y + float64(y0)
			continue
		}

		// the minimum was not in the unit square; minimize on its boundary
		min_ = Q.apply(s)
		xmin = s.X
		ymin = s.Y

		if Q[0][0] != 0.0 {
			for z = 0; z < 2; z++ { // value of the y-coordinate
				w.Y = s.Y - 0.5 + float64(z)
				w.X = -(Q[0][1]*w.Y + Q[0][2]) / Q[0][0]
				dx = math.Abs(w.X - s.X)
				cand = Q.apply(w)
				if dx <= .5 && cand < min_ {
					min_ = cand
					xmin = w.X
					ymin = w.Y
				}
			}
		}
		if Q[1][1] != 0.0 {
			for z = 0; z < 2; z++ { // value of the x-coordinate
				w.X = s.X - 0.5 + float64(z)
				w.Y = -(Q[1][0]*w.X + Q[1][2]) / Q[1][1]
				dy = math.Abs(w.Y - s.Y)
				cand = Q.apply(w)
				if dy <= .5 && cand < min_ {
					min_ = cand
					xmin = w.X
					ymin = w.Y
				}
			}
		}
		// check the four corners
		for l := 0; l < 2; l++ {
			for k := 0; k < 2; k++ {
				w.X = s.X - 0.5 + float64(l)
				w.Y = s.Y - 0.5 + float64(k)
				cand = Q.apply(w)
				if cand < min_ {
					min_ = cand
					xmin = w.X
					ymin = w.Y
				}
			}
		}

		fp.curve.seg[i].vertex.X = xmin + float64(x0)
		fp.curve.seg[i].vertex.Y = ymin + float64(y0)
	}
}

// Stage 4: smoothing and corner analysis (Sec. 2.3.3).

// reverse flips the orientation of a fitted curve.
func (c *fitCurve) reverse() {
	m := len(c.seg)
	for i, j := 0, m-1; i < j; i, j = i+1, j-1 {
		c.seg[i].vertex, c.seg[j].vertex = c.seg[j].vertex, c.seg[i].vertex
	}
}

// smooth examines each vertex and decides between a pointed corner and a
// smooth Bezier fit, depending on alphaMax.
func (c *fitCurve) smooth(alphaMax float64) {
	m := len(c.seg)
	for i := 0; i < m; i++ {
		j := mod(i+1, m)
		k := mod(i+2, m)
		p4 := interval(1/2.0, c.seg[k].vertex, c.seg[j].vertex)

		var alpha float64
		denom := ddenom(c.seg[i].vertex, c.seg[k].vertex)
		if denom != 0.0 {
			dd := dpara(c.seg[i].vertex, c.seg[j].vertex, c.seg[k].vertex) / denom
			dd = math.Abs(dd)
			if dd > 1 {
				alpha = 1 - 1.0/dd
			} else {
				alpha = 0
			}
			alpha = alpha / 0.75
		} else {
			alpha = 4 / 3.0
		}
		c.seg[j].alpha0 = alpha // "original" value of alpha

		if alpha >= alphaMax { // pointed corner
			c.seg[j].kind = Corner
			c.seg[j].pnt[1] = c.seg[j].vertex
			c.seg[j].pnt[2] = p4
		} else {
			if alpha < 0.55 {
				alpha = 0.55
			} else if alpha > 1 {
				alpha = 1
			}
			p2 := interval(.5+.5*alpha, c.seg[i].vertex, c.seg[j].vertex)
			p3 := interval(.5+.5*alpha, c.seg[k].vertex, c.seg[j].vertex)
			c.seg[j].kind = Smooth
			c.seg[j].pnt[0] = p2
			c.seg[j].pnt[1] = p3
			c.seg[j].pnt[2] = p4
		}
		c.seg[j].alpha = alpha // the "cropped" value of alpha
		c.seg[j].beta = 0.5
	}
}

// Stage 5: curve optimization (Sec. 2.4).

type opti struct {
	pen   float64
	c     [2]Point
	t, s  float64
	alpha float64
}

// optiPenalty calculates the best fit from i+.5 to j+.5, assuming i<j
// cyclically. The returned error means the i..j stretch cannot be replaced
// by a single segment.
func (fp *fitPath) optiPenalty(i, j int, tolerance float64, convc []int, areac []float64) (res opti, err error) {
	m := len(fp.curve.seg)

	// check convexity, corner-freeness, and maximum bend < 179 degrees

	if i == j { // a full loop can never be an opticurve
		return res, errors.New("full loop")
	}

	k := i
	i1 := mod(i+1, m)
	k1 := mod(k+1, m)
	conv := convc[k1]
	if conv == 0 {
		return res, errors.New("not convex")
	}
	d := ddist(fp.curve.seg[i].vertex, fp.curve.seg[i1].vertex)
	for k := k1; k != j; k = k1 {
		k1 = mod(k+1, m)
		k2 := mod(k+2, m)
		if convc[k1] != conv {
			return res, errors.New("convexity changes")
		}
		if int(signf(cprod(fp.curve.seg[i].vertex, fp.curve.seg[i1].vertex, fp.curve.seg[k1].vertex, fp.curve.seg[k2].vertex))) != conv {
			return res, errors.New("bend direction changes")
		}
		if iprod1(fp.curve.seg[i].vertex, fp.curve.seg[i1].vertex, fp.curve.seg[k1].vertex, fp.curve.seg[k2].vertex) < d*ddist(fp.curve.seg[k1].vertex, fp.curve.seg[k2].vertex)*cCOS179 {
			return res, errors.New("bend exceeds 179 degrees")
		}
	}

	// the curve we're working in:
	p0 := fp.curve.seg[mod(i, m)].pnt[2]
	p1 := fp.curve.seg[mod(i+1, m)].vertex
	p2 := fp.curve.seg[mod(j, m)].vertex
	p3 := fp.curve.seg[mod(j, m)].pnt[2]

	// determine its area
	area := areac[j] - areac[i]
	area -= dpara(fp.curve.seg[0].vertex, fp.curve.seg[i].pnt[2], fp.curve.seg[j].pnt[2]) / 2
	if i >= j {
		area += areac[m]
	}

	// Find the intersection o of p0p1 and p2p3. Let t,s be such that
	// o = interval(t,p0,p1) = interval(s,p3,p2), and A the area of the
	// triangle (p0,o,p3).
	A1 := dpara(p0, p1, p2)
	A2 := dpara(p0, p1, p3)
	A3 := dpara(p0, p2, p3)
	A4 := A1 + A3 - A2 // = dpara(p1, p2, p3)

	if A2 == A1 { // this should never happen
		return res, errors.New("degenerate intersection")
	}

	t := A3 / (A3 - A4)
	s := A2 / (A2 - A1)
	A := A2 * t / 2.0

	if A == 0.0 { // this should never happen
		return res, errors.New("zero area")
	}

	R := area / A                   // relative area
	alpha := 2 - math.Sqrt(4-R/0.3) // overall alpha for p0-o-p3 curve

	res.c[0] = interval(t*alpha, p0, p1)
	res.c[1] = interval(s*alpha, p3, p2)
	res.alpha = alpha
	res.t = t
	res.s = s

	p1 = res.c[0]
	p2 = res.c[1] // the proposed curve is now (p0,p1,p2,p3)

	res.pen = 0

	// calculate the penalty: check tangency with edges
	for k = mod(i+1, m); k != j; k = k1 {
		k1 = mod(k+1, m)
		t = tangent(p0, p1, p2, p3, fp.curve.seg[k].vertex, fp.curve.seg[k1].vertex)
		if t < -0.5 {
			return res, errors.New("no edge tangent")
		}
		pt := bezierPoint(t, p0, p1, p2, p3)
		d = ddist(fp.curve.seg[k].vertex, fp.curve.seg[k1].vertex)
		if d == 0.0 { // this should never happen
			return res, errors.New("coincident vertices")
		}
		d1 := dpara(fp.curve.seg[k].vertex, fp.curve.seg[k1].vertex, pt) / d
		if math.Abs(d1) > tolerance {
			return res, errors.New("tolerance exceeded")
		}
		if iprod(fp.curve.seg[k].vertex, fp.curve.seg[k1].vertex, pt) < 0 || iprod(fp.curve.seg[k1].vertex, fp.curve.seg[k].vertex, pt) < 0 {
			return res, errors.New("tangent point outside edge")
		}
		res.pen += d1 * d1
	}

	// check the corners
	for k = i; k != j; k = k1 {
		k1 = mod(k+1, m)
		t = tangent(p0, p1, p2, p3, fp.curve.seg[k].pnt[2], fp.curve.seg[k1].pnt[2])
		if t < -0.5 {
			return res, errors.New("no corner tangent")
		}
		pt := bezierPoint(t, p0, p1, p2, p3)
		d = ddist(fp.curve.seg[k].pnt[2], fp.curve.seg[k1].pnt[2])
		if d == 0.0 { // this should never happen
			return res, errors.New("coincident corners")
		}
		d1 := dpara(fp.curve.seg[k].pnt[2], fp.curve.seg[k1].pnt[2], pt) / d
		d2 := dpara(fp.curve.seg[k].pnt[2], fp.curve.seg[k1].pnt[2], fp.curve.seg[k1].vertex) / d
		d2 *= 0.75 * fp.curve.seg[k1].alpha
		if d2 < 0 {
			d1 = -d1
			d2 = -d2
		}
		if d1 < d2-tolerance {
			return res, errors.New("corner tolerance exceeded")
		}
		if d1 < d2 {
			res.pen += (d1 - d2) * (d1 - d2)
		}
	}

	return res, nil
}

// optiCurve optimizes the fitted curve, replacing sequences of Bezier
// segments by a single segment where possible.
func (fp *fitPath) optiCurve(tolerance float64) error {
	m := len(fp.curve.seg)

	var (
		pt    = make([]int, m+1)
		pen   = make([]float64, m+1)
		leng  = make([]int, m+1)
		opt   = make([]opti, m+1)
		convc = make([]int, m)       // pre-computed convexities
		areac = make([]float64, m+1) // cache for fast area computation
	)

	// pre-calculate convexity: +1 = right turn, -1 = left turn, 0 = corner
	for i := 0; i < m; i++ {
		if fp.curve.seg[i].kind == Smooth {
			convc[i] = int(signf(dpara(fp.curve.seg[mod(i-1, m)].vertex, fp.curve.seg[i].vertex, fp.curve.seg[mod(i+1, m)].vertex)))
		} else {
			convc[i] = 0
		}
	}

	// pre-calculate areas
	area := 0.0
	areac[0] = 0.0
	p0 := fp.curve.seg[0].vertex
	for i := 0; i < m; i++ {
		i1 := mod(i+1, m)
		if fp.curve.seg[i1].kind == Smooth {
			alpha := fp.curve.seg[i1].alpha
			area += 0.3 * alpha * (4 - alpha) * dpara(fp.curve.seg[i].pnt[2], fp.curve.seg[i1].vertex, fp.curve.seg[i1].pnt[2]) / 2
			area += dpara(p0, fp.curve.seg[i].pnt[2], fp.curve.seg[i1].pnt[2]) / 2
		}
		areac[i+1] = area
	}

	pt[0] = -1
	pen[0] = 0
	leng[0] = 0

	// TODO: starts from a fixed point; finding the best curve cyclically
	// would remove the dependence on the decomposition's start point.

	for j := 1; j <= m; j++ {
		// calculate the best path from 0 to j
		pt[j] = j - 1
		pen[j] = pen[j-1]
		leng[j] = leng[j-1] + 1

		for i := j - 2; i >= 0; i-- {
			o, err := fp.optiPenalty(i, mod(j, m), tolerance, convc, areac)
			if err != nil {
				break
			}
			if leng[j] > leng[i]+1 || (leng[j] == leng[i]+1 && pen[j] > pen[i]+o.pen) {
				pt[j] = i
				pen[j] = pen[i] + o.pen
				leng[j] = leng[i] + 1
				opt[j] = o
			}
		}
	}
	om := leng[m]
	fp.ocurve = newFitCurve(om)
	s := make([]float64, om)
	t := make([]float64, om)

	j := m
	for i := om - 1; i >= 0; i-- {
		if pt[j] == j-1 {
			fp.ocurve.seg[i] = fp.curve.seg[mod(j, m)]
			s[i], t[i] = 1.0, 1.0
		} else {
			fp.ocurve.seg[i] = fitSegment{
				kind:   Smooth,
				pnt:    [3]Point{opt[j].c[0], opt[j].c[1], fp.curve.seg[mod(j, m)].pnt[2]},
				vertex: interval(opt[j].s, fp.curve.seg[mod(j, m)].pnt[2], fp.curve.seg[mod(j, m)].vertex),
				alpha:  opt[j].alpha,
				alpha0: opt[j].alpha,
			}
			s[i] = opt[j].s
			t[i] = opt[j].t
		}
		j = pt[j]
	}

	// calculate the beta parameters
	for i := 0; i < om; i++ {
		i1 := mod(i+1, om)
		fp.ocurve.seg[i].beta = s[i] / (s[i] + t[i1])
	}
	return nil
}

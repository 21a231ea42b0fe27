package trace

import "math"

// ipoint is an integer lattice point; decomposed paths run along pixel
// corners.
type ipoint struct {
	X, Y int
}

func signf(v float64) float64 {
	if v > 0 {
		return +1
	} else if v < 0 {
		return -1
	}
	return 0
}

func isign(v int) int {
	if v > 0 {
		return +1
	} else if v < 0 {
		return -1
	}
	return 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// mod is the mathematical modulus; the result is always in [0,n).
func mod(a, n int) int {
	if a >= n {
		return a % n
	} else if a >= 0 {
		return a
	}
	return n - 1 - (-1-a)%n
}

// floordiv rounds the quotient towards negative infinity.
func floordiv(a, n int) int {
	if a >= 0 {
		return a / n
	}
	return -1 - (-1-a)/n
}

// interval ranges over the straight line segment [a,b] as lambda ranges over
// [0,1].
func interval(lambda float64, a, b Point) (res Point) {
	res.X = a.X + lambda*(b.X-a.X)
	res.Y = a.Y + lambda*(b.Y-a.Y)
	return
}

// dorthInfty returns a direction that is 90 degrees counterclockwise from
// p2-p0, restricted to one of the major wind directions (n, nw, w, etc).
func dorthInfty(p0, p2 Point) Point {
	return Point{signf(p2.X - p0.X), -signf(p2.Y - p0.Y)}
}

// dpara returns (p1-p0)x(p2-p0), the area of the parallelogram.
func dpara(p0, p1, p2 Point) float64 {
	x1 := p1.X - p0.X
	y1 := p1.Y - p0.Y
	x2 := p2.X - p0.X
	y2 := p2.Y - p0.Y
	return x1*y2 - x2*y1
}

// ddenom and dpara have the property that the square of radius 1 centered at
// p1 intersects the line p0p2 iff |dpara(p0,p1,p2)| <= ddenom(p0,p2).
func ddenom(p0, p2 Point) float64 {
	r := dorthInfty(p0, p2)
	return r.Y*(p2.X-p0.X) - r.X*(p2.Y-p0.Y)
}

// cyclic reports whether a <= b < c in a cyclic sense (mod n).
func cyclic(a, b, c int) bool {
	if a <= c {
		return a <= b && b < c
	}
	return a <= b || b < c
}

// xprod calculates p1 x p2.
func xprod(p1, p2 ipoint) int {
	return p1.X*p2.Y - p1.Y*p2.X
}

// cprod calculates (p1-p0)x(p3-p2).
func cprod(p0, p1, p2, p3 Point) float64 {
	x1 := p1.X - p0.X
	y1 := p1.Y - p0.Y
	x2 := p3.X - p2.X
	y2 := p3.Y - p2.Y
	return x1*y2 - x2*y1
}

// iprod calculates (p1-p0)*(p2-p0).
func iprod(p0, p1, p2 Point) float64 {
	x1 := p1.X - p0.X
	y1 := p1.Y - p0.Y
	x2 := p2.X - p0.X
	y2 := p2.Y - p0.Y
	return x1*x2 + y1*y2
}

// iprod1 calculates (p1-p0)*(p3-p2).
func iprod1(p0, p1, p2, p3 Point) float64 {
	x1 := p1.X - p0.X
	y1 := p1.Y - p0.Y
	x2 := p3.X - p2.X
	y2 := p3.Y - p2.Y
	return x1*x2 + y1*y2
}

// ddist calculates the distance between two points.
func ddist(p, q Point) float64 {
	x, y := p.X-q.X, p.Y-q.Y
	return math.Sqrt(x*x + y*y)
}

// bezierPoint evaluates the cubic Bezier curve (p0,p1,p2,p3) at t.
func bezierPoint(t float64, p0, p1, p2, p3 Point) (res Point) {
	s := 1 - t
	res.X = s*s*s*p0.X + 3*(s*s*t)*p1.X + 3*(t*t*s)*p2.X + t*t*t*p3.X
	res.Y = s*s*s*p0.Y + 3*(s*s*t)*p1.Y + 3*(t*t*s)*p2.Y + t*t*t*p3.Y
	return
}

// tangent calculates the point t in [0..1] on the (convex) Bezier curve
// (p0,p1,p2,p3) which is tangent to q1-q0. Returns -1.0 if there is no
// solution in [0..1].
func tangent(p0, p1, p2, p3, q0, q1 Point) float64 {
	A := cprod(p0, p1, q0, q1)
	B := cprod(p1, p2, q0, q1)
	C := cprod(p2, p3, q0, q1)

	a := A - 2*B + C
	b := -2*A + 2*B
	c := A

	d := b*b - 4*a*c
	if a == 0 || d < 0 {
		return -1
	}
	s := math.Sqrt(d)

	r1 := (-b + s) / (2 * a)
	r2 := (-b - s) / (2 * a)

	if r1 >= 0 && r1 <= 1 {
		return r1
	} else if r2 >= 0 && r2 <= 1 {
		return r2
	}
	return -1
}

// quadForm is an (affine) quadratic form, represented as a symmetric 3x3
// matrix. The value of the form at a vector (x,y) is v^t Q v, where
// v = (x,y,1)^t.
type quadForm [3][3]float64

// apply evaluates the quadratic form at w.
func (Q quadForm) apply(w Point) (sum float64) {
	v := [3]float64{w.X, w.Y, 1}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += v[i] * Q[i][j] * v[j]
		}
	}
	return sum
}

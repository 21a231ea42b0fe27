package curves

// LinearBezier evaluates the linear Bezier curve between p0 and p1 at
// parameter t:
//
//	(1-t)*p0 + t*p1
func LinearBezier(p0, p1, t float64) float64 {
	return (1-t)*p0 + t*p1
}

// CubicBezier evaluates the cubic Bezier curve from p0 to p1 with control
// points c1 and c2 at parameter t:
//
//	(1-t)^3*p0 + 3(1-t)^2*t*c1 + 3(1-t)*t^2*c2 + t^3*p1
func CubicBezier(p0, c1, c2, p1, t float64) float64 {
	s := 1 - t
	return s*s*s*p0 + 3*s*s*t*c1 + 3*s*t*t*c2 + t*t*t*p1
}

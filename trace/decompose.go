package trace

import "errors"

// Path decomposition: separate the bitmap into closed pixel-boundary paths,
// one per connected component, outer boundaries before the holes they
// enclose. A path is a list of lattice points on pixel corners; the point
// (x,y) is the lower left corner of the pixel (x,y).

var detrandTable = [256]byte{ // non-linear sequence: constant term of inverse in GF(8), mod x^8+x^4+x^3+x+1
	0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 1,
	0, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 0,
	0, 1, 0, 0, 1, 1, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1,
	1, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0, 1, 0, 1, 1,
	0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0,
	0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 1, 0,
	0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1, 0, 1, 0,
	0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1,
	1, 0, 1, 1, 0, 0, 0, 1, 1, 1, 1, 0, 1, 0, 0, 0, 0, 1, 0, 1, 1, 1, 0, 0,
	0, 1, 0, 1, 1, 0, 0, 1, 1, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 1,
	1, 1, 0, 0, 0, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0,
}

// detrand deterministically hashes (x,y) into a pseudo-random bit.
func detrand(x, y int) bool {
	t := detrandTable[:]
	z := ((0x04b3e375 * x) ^ y) * 0x05a8ef93
	z = int(t[z&0xff]) ^ int(t[(z>>8)&0xff]) ^ int(t[(z>>16)&0xff]) ^ int(t[(z>>24)&0xff])
	return z != 0
}

// clearExcess sets the padding bits beyond the bitmap width to 0; the fast
// pixel search relies on it.
func (bm *Bitmap) clearExcess() {
	if word(bm.W)%wordBits != 0 {
		mask := allBits << (wordBits - (word(bm.W) % wordBits))
		for y := 0; y < bm.H; y++ {
			*(bm.index(bm.W, y)) &= mask
		}
	}
}

// majority returns the "majority" value of the bitmap at intersection (x,y),
// assuming the bitmap is balanced at radius 1.
func (bm *Bitmap) majority(x, y int) bool {
	for i := 2; i < 5; i++ { // check at radius i
		ct := 0
		for a := -i + 1; a <= i-1; a++ {
			if bm.Get(x+a, y+i-1) {
				ct++
			} else {
				ct--
			}
			if bm.Get(x+i-1, y+a-1) {
				ct++
			} else {
				ct--
			}
			if bm.Get(x+a-1, y-i) {
				ct++
			} else {
				ct--
			}
			if bm.Get(x-i, y+a) {
				ct++
			} else {
				ct--
			}
		}
		if ct > 0 {
			return true
		} else if ct < 0 {
			return false
		}
	}
	return false
}

// xorToRef efficiently inverts bits between x and xa in line y. xa must be a
// multiple of wordBits.
func (bm *Bitmap) xorToRef(x, y, xa int) {
	xhi := x & -int(wordBits)
	xlo := x & int(wordBits-1)

	if xhi < xa {
		for i := xhi; i < xa; i += int(wordBits) {
			*(bm.index(i, y)) ^= allBits
		}
	} else {
		for i := xa; i < xhi; i += int(wordBits) {
			*(bm.index(i, y)) ^= allBits
		}
	}
	// x86 treats a<<b as a<<(b&31), so the shift must be guarded.
	if xlo != 0 {
		*bm.index(xhi, y) ^= (allBits << (wordBits - word(xlo)))
	}
}

// xorPath inverts the bitmap on the interior of the given path. The path
// must lie within the bitmap's dimensions.
func (bm *Bitmap) xorPath(pts []ipoint) {
	if len(pts) == 0 {
		return
	}
	y1 := pts[len(pts)-1].Y
	xa := pts[0].X & -int(wordBits)
	for _, p := range pts {
		if p.Y != y1 {
			// invert the rectangle [x,xa] x [y,y1]
			bm.xorToRef(p.X, min(p.Y, y1), xa)
			y1 = p.Y
		}
	}
}

// findPath walks a path in the bitmap, separating black from white, starting
// at (x0,y0) which must be an upper left corner of the path. It also returns
// the area enclosed by the path. Sign is required for correct interpretation
// of turn policies.
func (bm *Bitmap) findPath(x0, y0, sign int, policy TurnPolicy) ([]ipoint, int, error) {
	var (
		x, y       = x0, y0
		dirx, diry = 0, -1
		area       int
		pts        []ipoint
	)
	const limit = 1 << 24
	for i := 0; ; i++ {
		if i >= limit {
			return nil, 0, errors.New("trace: path length limit reached")
		}
		pts = append(pts, ipoint{x, y})

		// move to the next point
		x += dirx
		y += diry
		area += x * diry

		// path complete?
		if x == x0 && y == y0 {
			break
		}

		// determine the next direction
		c := bm.Get(x+(dirx+diry-1)/2, y+(diry-dirx-1)/2)
		d := bm.Get(x+(dirx-diry-1)/2, y+(diry+dirx-1)/2)

		if c && !d { // ambiguous turn
			if policy == TurnRight ||
				(policy == TurnBlack && sign == +1) ||
				(policy == TurnWhite && sign == -1) ||
				(policy == TurnRandom && detrand(x, y)) ||
				(policy == TurnMajority && bm.majority(x, y)) ||
				(policy == TurnMinority && !bm.majority(x, y)) {
				dirx, diry = diry, -dirx // right turn
			} else {
				dirx, diry = -diry, dirx // left turn
			}
		} else if c { // right turn
			dirx, diry = diry, -dirx
		} else if !d { // left turn
			dirx, diry = -diry, dirx
		}
	}
	return pts, area, nil
}

// findNext locates the next set pixel in a row <= y. Pixels are searched
// left-to-right within a row, rows top-down. Assumes the excess padding has
// been cleared.
func (bm *Bitmap) findNext(xp, yp *int) bool {
	x0 := (*xp) & ^int(wordBits-1)
	for y := *yp; y >= 0; y-- {
		for x := x0; x < bm.W; x += int(wordBits) {
			if *bm.index(x, y) != 0 {
				for !bm.Get(x, y) {
					x++
				}
				*xp = x
				*yp = y
				return true
			}
		}
		x0 = 0
	}
	return false
}

// toCurves decomposes the bitmap into component paths and fits each one into
// a closed curve. Paths at or below the turd size are dropped as speckles.
func (bm *Bitmap) toCurves(param *Params) ([]Curve, error) {
	work := bm.Clone()
	work.clearExcess()

	var out []Curve
	x, y := 0, work.H-1
	visits := make(map[ipoint]int)
	for work.findNext(&x, &y) {
		// the sign comes from the original bitmap
		sign := -1
		if bm.Get(x, y) {
			sign = +1
		}
		if visits[ipoint{x, y}] > 5 {
			return out, errors.New("trace: endless loop during decomposition")
		}
		visits[ipoint{x, y}]++

		pts, area, err := work.findPath(x, y+1, sign, param.TurnPolicy)
		if err != nil {
			return out, err
		}
		work.xorPath(pts)

		if area <= param.TurdSize {
			continue
		}
		cur, err := fitOnePath(pts, sign, param)
		if err != nil {
			return out, err
		}
		cur.Area = area
		out = append(out, cur)
	}
	return out, nil
}

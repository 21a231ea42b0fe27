package trace

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mediagrapher/mediagrapher/media"
)

func TestBitmap(t *testing.T) {
	bm := NewBitmap(1543, 1234)
	i := 0
	check := make([]bool, bm.W*bm.H)
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			v := rand.Intn(10) > 4
			check[i] = v
			bm.Set(x, y, v)
			i++
		}
	}
	i = 0
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			if check[i] != bm.Get(x, y) {
				t.Fatal("failed")
			}
			i++
		}
	}
}

func TestFromRaster(t *testing.T) {
	r := media.NewRaster(9, 5, 1)
	r.Set(0, 0, 0, 1)
	r.Set(8, 4, 0, 255)
	r.Set(3, 2, 0, 1)
	bm := FromRaster(r)
	if bm.W != 9 || bm.H != 5 {
		t.Fatal("wrong dimensions:", bm.W, bm.H)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 9; x++ {
			want := r.At(x, y, 0) != 0
			if bm.Get(x, y) != want {
				t.Fatalf("mismatch at (%d,%d)", x, y)
			}
		}
	}
}

// genTriangle fills the lower-right triangle of a 12x12 bitmap.
func genTriangle() *Bitmap {
	bm := NewBitmap(12, 12)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			if x >= 11-y {
				bm.Set(x, y, true)
			}
		}
	}
	return bm
}

// genSquare fills the pixels [2,8]x[2,8] of a 12x12 bitmap.
func genSquare() *Bitmap {
	bm := NewBitmap(12, 12)
	for y := 2; y <= 8; y++ {
		for x := 2; x <= 8; x++ {
			bm.Set(x, y, true)
		}
	}
	return bm
}

func TestTraceTriangle(t *testing.T) {
	paths, err := Trace(genTriangle(), nil)
	if err != nil {
		t.Fatal(err)
	} else if len(paths) != 1 {
		t.Fatal("wrong paths count:", len(paths))
	} else if paths[0].Sign != +1 {
		t.Fatal("wrong sign in path:", paths[0].Sign)
	} else if paths[0].Area != 78 {
		t.Fatal("wrong area of path:", paths[0].Area)
	}
	checkFinite(t, paths)
}

func TestTraceSquareCorners(t *testing.T) {
	// AlphaMax 0 turns every vertex into a pointed corner.
	param := Params{TurdSize: 2, TurnPolicy: TurnMinority, AlphaMax: 0}
	paths, err := Trace(genSquare(), &param)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatal("wrong paths count:", len(paths))
	}
	cur := paths[0]
	if cur.Area != 49 {
		t.Fatal("wrong area of path:", cur.Area)
	}
	if len(cur.Segments) != 4 {
		t.Fatal("wrong segment count:", len(cur.Segments))
	}
	near := func(v, a, b float64) bool {
		return math.Abs(v-a) < 0.5 || math.Abs(v-b) < 0.5
	}
	for i, seg := range cur.Segments {
		if seg.Kind != Corner {
			t.Fatalf("segment %d: expected a corner", i)
		}
		// control points sit on the square corners (2,2)..(9,9)
		if !near(seg.C.X, 2, 9) || !near(seg.C.Y, 2, 9) {
			t.Fatalf("segment %d: unexpected control point %v", i, seg.C)
		}
	}
}

func TestTraceSquareSmooth(t *testing.T) {
	// With the default AlphaMax the square corners smooth out slightly.
	paths, err := Trace(genSquare(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatal("wrong paths count:", len(paths))
	}
	checkFinite(t, paths)
}

func TestTraceEmpty(t *testing.T) {
	paths, err := Trace(NewBitmap(64, 64), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Fatal("expected no paths, got:", len(paths))
	}
}

func TestTraceHole(t *testing.T) {
	// A ring decomposes into an outer path and a negative hole path.
	bm := NewBitmap(20, 20)
	for y := 2; y <= 16; y++ {
		for x := 2; x <= 16; x++ {
			bm.Set(x, y, true)
		}
	}
	for y := 6; y <= 12; y++ {
		for x := 6; x <= 12; x++ {
			bm.Set(x, y, false)
		}
	}
	paths, err := Trace(bm, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatal("wrong paths count:", len(paths))
	}
	if paths[0].Sign != +1 || paths[1].Sign != -1 {
		t.Fatal("wrong signs:", paths[0].Sign, paths[1].Sign)
	}
}

func checkFinite(t *testing.T, paths []Curve) {
	t.Helper()
	for _, cur := range paths {
		if len(cur.Segments) == 0 {
			t.Fatal("curve without segments")
		}
		for _, seg := range cur.Segments {
			pts := []Point{seg.End}
			if seg.Kind == Corner {
				pts = append(pts, seg.C)
			} else {
				pts = append(pts, seg.C1, seg.C2)
			}
			for _, p := range pts {
				if math.IsNaN(p.X) || math.IsInf(p.X, 0) ||
					math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
					t.Fatal("non-finite point in curve:", p)
				}
			}
		}
	}
}

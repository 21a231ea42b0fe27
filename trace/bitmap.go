package trace

import (
	"unsafe"

	"github.com/mediagrapher/mediagrapher/media"
)

var (
	wordSize = word(unsafe.Sizeof(word(0)))
	wordBits = wordSize * 8
	hiBit    = word(1) << (wordBits - 1)
	allBits  = ^word(0)
)

// word packs multiple bits of a bitmap.
type word uint

// Bitmap is a packed binary image. The n-th scanline occupies Dy words
// starting at n*Dy; the leftmost pixel of a scanline is the most significant
// bit of its first word.
type Bitmap struct {
	W, H int    // width and height, in pixels
	Dy   int    // words per scanline
	Map  []word // raw data, Dy*H words
}

// NewBitmap creates a cleared bitmap with the given dimensions.
func NewBitmap(w, h int) *Bitmap {
	dy := 0
	if w != 0 {
		dy = (w-1)/int(wordBits) + 1
	}
	return &Bitmap{
		W: w, H: h,
		Map: make([]word, dy*h), Dy: dy,
	}
}

// FromRaster builds a bitmap from a normalized mask: any non-zero sample in
// the raster's first channel sets the corresponding pixel.
func FromRaster(r *media.Raster) *Bitmap {
	bm := NewBitmap(r.W, r.H)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			if r.At(x, y, 0) != 0 {
				bm.Set(x, y, true)
			}
		}
	}
	return bm
}

func (bm *Bitmap) index(x, y int) *word { return &(bm.Map[word(y*bm.Dy)+word(x)/wordBits]) }
func (bm *Bitmap) mask(x int) word      { return hiBit >> (word(x) & (wordBits - 1)) }

// Get returns the pixel at the given coordinates; out-of-range reads are
// false.
func (bm *Bitmap) Get(x, y int) bool {
	if x >= 0 && x < bm.W && y >= 0 && y < bm.H {
		return ((*bm.index(x, y)) & bm.mask(x)) != 0
	}
	return false
}

// Set stores the pixel at the given coordinates; out-of-range writes are
// dropped.
func (bm *Bitmap) Set(x, y int, v bool) {
	if x >= 0 && x < bm.W && y >= 0 && y < bm.H {
		if v {
			*bm.index(x, y) |= bm.mask(x)
		} else {
			*bm.index(x, y) &= ^bm.mask(x)
		}
	}
}

// Clone duplicates the bitmap.
func (bm *Bitmap) Clone() *Bitmap {
	b2 := NewBitmap(bm.W, bm.H)
	copy(b2.Map, bm.Map)
	return b2
}

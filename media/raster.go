package media

import "image"

// Raster is a 2-D grid of 8-bit samples with 1 (gray or mask) or 3 (RGB)
// channels. Samples are stored row-major, channels interleaved.
type Raster struct {
	W, H     int
	Channels int
	Pix      []uint8
}

// NewRaster creates a zeroed raster with the given dimensions.
func NewRaster(w, h, channels int) *Raster {
	return &Raster{
		W: w, H: h,
		Channels: channels,
		Pix:      make([]uint8, w*h*channels),
	}
}

// At returns the sample at (x,y) in channel c.
func (r *Raster) At(x, y, c int) uint8 {
	return r.Pix[(y*r.W+x)*r.Channels+c]
}

// Set stores a sample at (x,y) in channel c.
func (r *Raster) Set(x, y, c int, v uint8) {
	r.Pix[(y*r.W+x)*r.Channels+c] = v
}

// Gray reduces the raster to a single luminance channel using the
// ITU-R BT.601 weights. A raster that is already single-channel is
// returned unchanged.
func (r *Raster) Gray() *Raster {
	if r.Channels == 1 {
		return r
	}
	out := NewRaster(r.W, r.H, 1)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			i := (y*r.W + x) * r.Channels
			red, green, blue := r.Pix[i], r.Pix[i+1], r.Pix[i+2]
			lum := (299*int(red) + 587*int(green) + 114*int(blue) + 500) / 1000
			out.Pix[y*r.W+x] = uint8(lum)
		}
	}
	return out
}

// Normalize clamps the raster in place so that every sample greater than 1
// becomes 1. Detectors emit 0/255 (or raw gradient magnitudes); the tracer
// requires a strict binary mask.
func Normalize(r *Raster) {
	for i, v := range r.Pix {
		if v > 1 {
			r.Pix[i] = 1
		}
	}
}

// FromImage converts a decoded image to a 3-channel RGB raster.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	out := NewRaster(b.Dx(), b.Dy(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			red, green, blue, _ := img.At(x, y).RGBA()
			out.Pix[i] = uint8(red >> 8)
			out.Pix[i+1] = uint8(green >> 8)
			out.Pix[i+2] = uint8(blue >> 8)
			i += 3
		}
	}
	return out
}

package media

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Both detectors share the same preprocessing: a 3x3 Gaussian blur followed
// by a grayscale conversion. Gradients are taken with the standard 3x3 Sobel
// kernels at signed 16-bit depth; samples outside the image are replicated
// from the nearest edge.

// Canny runs hysteresis edge detection. Gradient magnitude uses the L1 norm,
// thinned by non-maximum suppression along the gradient direction. Pixels at
// or above high seed the result; pixels at or above low are kept when
// 8-connected to a seed. Output samples are 0 or 255.
func (m *Image) Canny(low, high int) *Raster {
	gray := blurGray(m.img)
	gx, gy := sobelGradients(gray)
	w, h := gray.W, gray.H

	mag := make([]int32, w*h)
	for i := range mag {
		mag[i] = absInt32(int32(gx[i])) + absInt32(int32(gy[i]))
	}

	// Non-maximum suppression: keep a pixel only if its magnitude is a local
	// maximum along the quantized gradient direction.
	const tan22 = 0.4142135623730951
	const tan67 = 2.414213562373095
	thin := make([]int32, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			v := mag[i]
			if v == 0 {
				continue
			}
			ax := float64(absInt32(int32(gx[i])))
			ay := float64(absInt32(int32(gy[i])))
			var n1, n2 int32
			switch {
			case ay <= ax*tan22: // near-horizontal gradient
				n1, n2 = mag[i-1], mag[i+1]
			case ay >= ax*tan67: // near-vertical gradient
				n1, n2 = mag[i-w], mag[i+w]
			case (gx[i] >= 0) == (gy[i] >= 0): // diagonal, same sign
				n1, n2 = mag[i-w-1], mag[i+w+1]
			default: // diagonal, opposite sign
				n1, n2 = mag[i-w+1], mag[i+w-1]
			}
			if v > n1 && v >= n2 {
				thin[i] = v
			}
		}
	}

	// Hysteresis: flood from strong pixels through weak ones.
	out := NewRaster(w, h, 1)
	var stack []int
	for i, v := range thin {
		if v >= int32(high) {
			out.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.Pix[j] == 0 && thin[j] >= int32(low) {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

// Sobel returns the gradient-magnitude image: the absolute horizontal and
// vertical Sobel gradients, each saturated to 8 bits, combined with equal
// 0.5/0.5 weights and rounded.
func (m *Image) Sobel() *Raster {
	gray := blurGray(m.img)
	gx, gy := sobelGradients(gray)

	out := NewRaster(gray.W, gray.H, 1)
	for i := range out.Pix {
		ax := saturate8(absInt32(int32(gx[i])))
		ay := saturate8(absInt32(int32(gy[i])))
		out.Pix[i] = uint8((int(ax) + int(ay) + 1) / 2)
	}
	return out
}

// blurGray applies the shared 3x3 Gaussian blur and grayscale conversion.
func blurGray(img image.Image) *Raster {
	blurred := blur.Gaussian(img, 1)
	gray := effect.Grayscale(blurred)

	b := gray.Bounds()
	out := NewRaster(b.Dx(), b.Dy(), 1)
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			// Grayscale output has equal channels; take red.
			out.Pix[y*out.W+x] = gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return out
}

// sobelGradients convolves a single-channel raster with the 3x3 Sobel
// kernels, replicating border samples.
func sobelGradients(gray *Raster) (gx, gy []int16) {
	w, h := gray.W, gray.H
	gx = make([]int16, w*h)
	gy = make([]int16, w*h)
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return int(gray.Pix[y*w+x])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)
			i := y*w + x
			gx[i] = int16((tr + 2*mr + br) - (tl + 2*ml + bl))
			gy[i] = int16((bl + 2*bc + br) - (tl + 2*tc + tr))
		}
	}
	return gx, gy
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func saturate8(v int32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

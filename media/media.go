// Package media acquires bitmaps and turns them into binary edge masks.
//
// A Media supplies the pixel grid consumed by the curve pipeline; the Image
// implementation decodes files or URLs and applies Canny or Sobel edge
// detection on demand.
package media

// Media is a source of pixel data for the curve pipeline. Implementations
// must be safe to share between pipeline invocations as long as no mutating
// method (resize, rotate, flip) runs concurrently.
type Media interface {
	// Resolution returns the current width and height in pixels.
	Resolution() (w, h int)

	// ToArray returns the pixel grid as a 3-channel RGB raster.
	ToArray() *Raster

	// Canny runs Gaussian blur followed by hysteresis edge detection with
	// the given low/high thresholds. The result is a single-channel raster
	// with 255 at accepted edge pixels and 0 elsewhere.
	Canny(low, high int) *Raster

	// Sobel runs Gaussian blur followed by a 3x3 Sobel gradient filter,
	// combining the absolute horizontal and vertical gradients with equal
	// weights. The result is a single-channel gradient-magnitude raster.
	Sobel() *Raster

	// ResizeResolution scales the media to an exact width and height.
	ResizeResolution(w, h int)

	// ResizeScale scales the media by a factor, preserving aspect ratio.
	ResizeScale(scale float64)

	// Rotate rotates the media by the given angle in degrees,
	// counter-clockwise, preserving the canvas size.
	Rotate(angle float64)

	// Flip mirrors the media horizontally (left to right).
	Flip()
}

package media

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/transform"

	// Decoders for the common raster formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// httpClient is used by FetchImage. Downloads that stall longer than the
// timeout fail rather than blocking the pipeline.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// Image is a Media backed by a decoded in-memory image.
type Image struct {
	img image.Image
}

// NewImage wraps an already decoded image.
func NewImage(img image.Image) *Image {
	return &Image{img: img}
}

// OpenImage decodes an image from a file on disk.
func OpenImage(filename string) (*Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return &Image{img: img}, nil
}

// FetchImage downloads and decodes an image from a URL. The response must
// carry an image content type.
func FetchImage(url string) (*Image, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "image") {
		return nil, fmt.Errorf("fetch %s: not an image (content type %q)", url, ct)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &Image{img: img}, nil
}

// Resolution returns the image width and height in pixels.
func (m *Image) Resolution() (w, h int) {
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

// ToArray returns the pixels as a 3-channel RGB raster.
func (m *Image) ToArray() *Raster {
	return FromImage(m.img)
}

// ResizeResolution scales the image to an exact width and height.
func (m *Image) ResizeResolution(w, h int) {
	m.img = transform.Resize(m.img, w, h, transform.Linear)
}

// ResizeScale scales the image by a factor, preserving aspect ratio.
func (m *Image) ResizeScale(scale float64) {
	w, h := m.Resolution()
	m.img = transform.Resize(m.img, int(float64(w)*scale), int(float64(h)*scale), transform.Linear)
}

// Rotate rotates the image by the given angle in degrees about its center.
// The canvas size is preserved.
func (m *Image) Rotate(angle float64) {
	m.img = transform.Rotate(m.img, angle, nil)
}

// Flip mirrors the image horizontally (left to right).
func (m *Image) Flip() {
	m.img = transform.FlipH(m.img)
}

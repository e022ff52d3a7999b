// Package imaging provides grayscale floating-point images and the
// resampling primitives (warp, blur, downsample, pyramid) used by the
// registration pipeline.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	_ "golang.org/x/image/tiff"
)

// ErrInvalidInput reports malformed inputs: empty images, mismatched
// shapes, out-of-range level counts and the like.
var ErrInvalidInput = errors.New("invalid input")

// Image is a 2D grayscale image with float64 samples in [0,1], stored
// row-major in Pix. Pipeline operations never mutate an Image in place;
// every transformation allocates a new one.
type Image struct {
	Width  int
	Height int
	Pix    []float64
}

// New creates a zero-filled image of the given dimensions.
func New(width, height int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidInput, width, height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}, nil
}

// FromPix wraps an existing sample slice. The slice is not copied.
func FromPix(pix []float64, width, height int) (*Image, error) {
	if width < 1 || height < 1 || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d image", ErrInvalidInput, len(pix), width, height)
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts a decoded image to grayscale using ITU-R 601 luma
// weights, scaled to [0,1].
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &Image{Width: w, Height: h, Pix: make([]float64, w*h)}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			out.Pix[y*w+x] = luma / 65535.0
		}
	}
	return out
}

// Load reads and decodes an image file (PNG, JPEG or TIFF) as grayscale.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// At returns the sample at (x, y). Coordinates outside the image yield 0.
func (m *Image) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[y*m.Width+x]
}

// Set assigns the sample at (x, y). Out-of-range coordinates are ignored.
func (m *Image) Set(x, y int, v float64) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	pix := make([]float64, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// SameSize reports whether two images have identical dimensions.
func (m *Image) SameSize(other *Image) bool {
	return other != nil && m.Width == other.Width && m.Height == other.Height
}

// ToGray converts to an 8-bit grayscale image, clamping samples to [0,1].
func (m *Image) ToGray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := clamp01(m.Pix[y*m.Width+x])
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}
	return out
}

// SavePNG writes the image as an 8-bit grayscale PNG.
func (m *Image) SavePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, m.ToGray()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Overlay blends two images of the same size: opacity*a + (1-opacity)*b.
// Useful for visually inspecting registration quality.
func Overlay(a, b *Image, opacity float64) (*Image, error) {
	if a == nil || !a.SameSize(b) {
		return nil, fmt.Errorf("%w: overlay requires matching image sizes", ErrInvalidInput)
	}

	out := &Image{Width: a.Width, Height: a.Height, Pix: make([]float64, len(a.Pix))}
	for i := range a.Pix {
		out.Pix[i] = opacity*a.Pix[i] + (1-opacity)*b.Pix[i]
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

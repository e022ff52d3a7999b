package imaging

import (
	"fmt"
	"math"
)

// GaussianBlur convolves the image with a separable Gaussian kernel of the
// given standard deviation. Boundaries are mirrored. A sigma <= 0 returns
// an unfiltered copy.
func GaussianBlur(src *Image, sigma float64) *Image {
	if sigma <= 0 {
		return src.Clone()
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := src.Width, src.Height

	// Horizontal pass
	tmp := &Image{Width: w, Height: h, Pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * src.Pix[y*w+mirror(x+k, w)]
			}
			tmp.Pix[y*w+x] = sum
		}
	}

	// Vertical pass
	out := &Image{Width: w, Height: h, Pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * tmp.Pix[mirror(y+k, h)*w+x]
			}
			out.Pix[y*w+x] = sum
		}
	}
	return out
}

// gaussianKernel builds a normalized 1D Gaussian kernel with radius
// ceil(3*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// mirror reflects an out-of-range index back into [0, n).
func mirror(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*n - i - 1
	}
	if i < 0 || i >= n {
		// Degenerate for n smaller than the reflection span; clamp.
		if i < 0 {
			return 0
		}
		return n - 1
	}
	return i
}

// Downsample2x halves the image resolution along each axis using bilinear
// interpolation. Output pixel i samples the input at 2*i + offset, where
// offset = ((size+1) mod 2)/2 keeps the sampling grid centered for both
// even and odd sizes.
func Downsample2x(src *Image) (*Image, error) {
	if src == nil || len(src.Pix) == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidInput)
	}

	outW := (src.Width + 1) / 2
	outH := (src.Height + 1) / 2
	offX := float64((src.Width+1)%2) / 2
	offY := float64((src.Height+1)%2) / 2

	out := &Image{Width: outW, Height: outH, Pix: make([]float64, outW*outH)}
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx := 2*float64(x) + offX
			sy := 2*float64(y) + offY
			out.Pix[y*outW+x] = sampleBilinear(src, sx, sy)
		}
	}
	return out, nil
}

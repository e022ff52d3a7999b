package imaging

import (
	"fmt"
	"math"

	"imgreg/pkg/geometry"
)

// Interpolation orders accepted by Warp.
const (
	InterpBilinear = 1
	InterpBicubic  = 3
)

// Warp resamples src under the given affine transform. Each output pixel
// (x, y) is sampled from src at t^-1(x, y), so image content moves forward
// by t. Samples falling outside src are 0. Order selects the interpolation
// kernel: 1 for bilinear, 3 for bicubic (Catmull-Rom).
func Warp(src *Image, t geometry.AffineTransform, order int) (*Image, error) {
	if src == nil || len(src.Pix) == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidInput)
	}
	if order != InterpBilinear && order != InterpBicubic {
		return nil, fmt.Errorf("%w: interpolation order %d", ErrInvalidInput, order)
	}

	inv, ok := t.Inverse()
	if !ok {
		return nil, fmt.Errorf("%w: singular transform %v", ErrInvalidInput, t)
	}

	out := &Image{Width: src.Width, Height: src.Height, Pix: make([]float64, len(src.Pix))}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			p := inv.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			var v float64
			if order == InterpBilinear {
				v = sampleBilinear(src, p.X, p.Y)
			} else {
				v = sampleBicubic(src, p.X, p.Y)
			}
			out.Pix[y*src.Width+x] = v
		}
	}
	return out, nil
}

// sampleBilinear interpolates src at fractional coordinates. Taps outside
// the image contribute 0.
func sampleBilinear(src *Image, x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := src.At(x0, y0)
	v10 := src.At(x0+1, y0)
	v01 := src.At(x0, y0+1)
	v11 := src.At(x0+1, y0+1)

	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy
}

// sampleBicubic interpolates src with a 4x4 Catmull-Rom kernel. The kernel
// is interpolating, so sampling at exact integer coordinates reproduces the
// pixel value.
func sampleBicubic(src *Image, x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var wx, wy [4]float64
	catmullRomWeights(fx, &wx)
	catmullRomWeights(fy, &wy)

	var sum float64
	for j := 0; j < 4; j++ {
		if wy[j] == 0 {
			continue
		}
		var row float64
		for i := 0; i < 4; i++ {
			if wx[i] == 0 {
				continue
			}
			row += wx[i] * src.At(x0+i-1, y0+j-1)
		}
		sum += wy[j] * row
	}
	return sum
}

// catmullRomWeights fills w with the four Catmull-Rom tap weights for
// fractional offset t in [0,1). At t=0 the weights are exactly (0,1,0,0).
func catmullRomWeights(t float64, w *[4]float64) {
	t2 := t * t
	t3 := t2 * t
	w[0] = 0.5 * (-t3 + 2*t2 - t)
	w[1] = 0.5 * (3*t3 - 5*t2 + 2)
	w[2] = 0.5 * (-3*t3 + 4*t2 + t)
	w[3] = 0.5 * (t3 - t2)
}

// Package register estimates rigid transforms between grayscale images by
// numerical minimization of an intensity cost function, refined coarse to
// fine over a Gaussian pyramid.
package register

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"imgreg/internal/imaging"
	"imgreg/pkg/geometry"
)

// ParamLen is the length of the rigid parameter vector:
// (rotation radians, x translation, y translation).
const ParamLen = 3

// histBins is the per-axis bin count of the joint intensity histogram used
// by NMI.
const histBins = 100

// CostFunc maps a rigid parameter vector and an image pair to a scalar
// dissimilarity; lower is better. Implementations are pure and may be
// evaluated arbitrarily often by the optimizer.
type CostFunc func(param []float64, ref, target *imaging.Image) (float64, error)

// warpTarget applies the rigid transform encoded in param to target with
// bicubic interpolation, after validating the inputs shared by all cost
// functions.
func warpTarget(param []float64, ref, target *imaging.Image) (*imaging.Image, error) {
	if len(param) != ParamLen {
		return nil, fmt.Errorf("%w: parameter vector length %d", imaging.ErrInvalidInput, len(param))
	}
	if ref == nil || len(ref.Pix) == 0 || !ref.SameSize(target) {
		return nil, fmt.Errorf("%w: cost requires two images of identical size", imaging.ErrInvalidInput)
	}
	return imaging.Warp(target, geometry.Rigid(param[0], param[1], param[2]), imaging.InterpBicubic)
}

// MSE is the mean squared error cost: the target is warped by the rigid
// transform built from param and compared elementwise against ref. Zero
// for identical images under the identity transform. Assumes both images
// share photometric modality; degrades when they come from different
// imaging filters.
func MSE(param []float64, ref, target *imaging.Image) (float64, error) {
	warped, err := warpTarget(param, ref, target)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range ref.Pix {
		d := ref.Pix[i] - warped.Pix[i]
		sum += d * d
	}
	return sum / float64(len(ref.Pix)), nil
}

// NMI is the negative normalized mutual information cost:
// -(H(A)+H(B))/H(A,B), estimated from a joint intensity histogram with
// histBins bins per axis. NMI itself lies in [1,2] and is maximal at true
// alignment, so it is negated for minimization. Unlike MSE it rewards any
// statistical predictability between the two intensity distributions, so
// it remains effective across differing imaging modalities.
func NMI(param []float64, ref, target *imaging.Image) (float64, error) {
	warped, err := warpTarget(param, ref, target)
	if err != nil {
		return 0, err
	}

	nmi, err := normalizedMutualInfo(ref, warped)
	if err != nil {
		return 0, err
	}
	return -nmi, nil
}

// normalizedMutualInfo computes (H(A)+H(B))/H(A,B) for two images of the
// same size from their joint intensity histogram.
func normalizedMutualInfo(a, b *imaging.Image) (float64, error) {
	joint := jointHistogram(a, b)

	// Marginal distributions are the row and column sums of the joint.
	rowSums := make([]float64, histBins)
	colSums := make([]float64, histBins)
	for i := 0; i < histBins; i++ {
		row := joint.RawRowView(i)
		rowSums[i] = floats.Sum(row)
		for j := 0; j < histBins; j++ {
			colSums[j] += row[j]
		}
	}

	hJoint := stat.Entropy(joint.RawMatrix().Data)
	if hJoint == 0 {
		// Both images are constant; mutual information is undefined.
		return 0, fmt.Errorf("%w: zero joint entropy", imaging.ErrInvalidInput)
	}
	return (stat.Entropy(rowSums) + stat.Entropy(colSums)) / hJoint, nil
}

// jointHistogram accumulates the 2D intensity histogram of two same-size
// images over [0,1], normalized to a probability distribution.
func jointHistogram(a, b *imaging.Image) *mat.Dense {
	joint := mat.NewDense(histBins, histBins, nil)
	for i := range a.Pix {
		ba := intensityBin(a.Pix[i])
		bb := intensityBin(b.Pix[i])
		joint.Set(ba, bb, joint.At(ba, bb)+1)
	}

	n := float64(len(a.Pix))
	joint.Scale(1/n, joint)
	return joint
}

// intensityBin maps a sample to its histogram bin, clamping values that
// interpolation pushed slightly outside [0,1].
func intensityBin(v float64) int {
	idx := int(v * histBins)
	if idx < 0 {
		return 0
	}
	if idx >= histBins {
		return histBins - 1
	}
	return idx
}

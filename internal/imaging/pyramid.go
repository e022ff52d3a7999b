package imaging

import (
	"fmt"
)

// PyramidSigma is the fixed blur applied before each downsampling step.
// This is a single smoothing pass, not a general-purpose anti-aliasing
// filter.
const PyramidSigma = 2.0 / 3.0

// Pyramid builds a Gaussian pyramid with the requested number of levels,
// ordered coarsest to finest. The finest level is the original image,
// unmodified; each coarser level is the next finer one blurred with
// PyramidSigma and downsampled by 2x per axis. Levels are materialized
// eagerly: the level count is small and the images dominate memory, not
// the container.
func Pyramid(src *Image, levels int) ([]*Image, error) {
	if src == nil || len(src.Pix) == 0 {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidInput)
	}
	if levels < 1 {
		return nil, fmt.Errorf("%w: pyramid levels %d", ErrInvalidInput, levels)
	}

	seq := make([]*Image, levels)
	seq[levels-1] = src

	cur := src
	for i := levels - 2; i >= 0; i-- {
		down, err := Downsample2x(GaussianBlur(cur, PyramidSigma))
		if err != nil {
			return nil, fmt.Errorf("pyramid level %d: %w", i, err)
		}
		seq[i] = down
		cur = down
	}
	return seq, nil
}

package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianBlur(t *testing.T) {
	t.Parallel()

	t.Run("preserves a constant image", func(t *testing.T) {
		t.Parallel()
		src, err := New(16, 12)
		require.NoError(t, err)
		for i := range src.Pix {
			src.Pix[i] = 0.625
		}

		out := GaussianBlur(src, PyramidSigma)
		for i, v := range out.Pix {
			assert.InDelta(t, 0.625, v, 1e-12, "pixel %d", i)
		}
	})

	t.Run("smooths a spike", func(t *testing.T) {
		t.Parallel()
		src, err := New(15, 15)
		require.NoError(t, err)
		src.Set(7, 7, 1)

		out := GaussianBlur(src, 1.0)
		assert.Less(t, out.At(7, 7), 1.0)
		assert.Greater(t, out.At(7, 7), out.At(7, 8))
		assert.Greater(t, out.At(7, 8), 0.0)
	})

	t.Run("non-positive sigma copies", func(t *testing.T) {
		t.Parallel()
		src := testPattern(t, 10, 10)
		out := GaussianBlur(src, 0)
		assert.Equal(t, src.Pix, out.Pix)
		assert.NotSame(t, src, out)
	})

	t.Run("does not mutate the source", func(t *testing.T) {
		t.Parallel()
		src := testPattern(t, 12, 12)
		before := src.Clone()
		GaussianBlur(src, 1.5)
		assert.Equal(t, before.Pix, src.Pix)
	})
}

func TestDownsample2x(t *testing.T) {
	t.Parallel()

	t.Run("halves dimensions", func(t *testing.T) {
		t.Parallel()
		src := testPattern(t, 20, 14)
		out, err := Downsample2x(src)
		require.NoError(t, err)
		assert.Equal(t, 10, out.Width)
		assert.Equal(t, 7, out.Height)
	})

	t.Run("rounds odd dimensions up", func(t *testing.T) {
		t.Parallel()
		src := testPattern(t, 9, 7)
		out, err := Downsample2x(src)
		require.NoError(t, err)
		assert.Equal(t, 5, out.Width)
		assert.Equal(t, 4, out.Height)
	})

	t.Run("preserves a constant image", func(t *testing.T) {
		t.Parallel()
		src, err := New(16, 16)
		require.NoError(t, err)
		for i := range src.Pix {
			src.Pix[i] = 0.25
		}

		out, err := Downsample2x(src)
		require.NoError(t, err)
		for i, v := range out.Pix {
			assert.InDelta(t, 0.25, v, 1e-12, "pixel %d", i)
		}
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		_, err := Downsample2x(nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

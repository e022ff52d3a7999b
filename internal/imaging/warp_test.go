package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgreg/pkg/geometry"
)

func TestWarpIdentity(t *testing.T) {
	t.Parallel()

	src := testPattern(t, 32, 24)

	for _, order := range []int{InterpBilinear, InterpBicubic} {
		out, err := Warp(src, geometry.Identity(), order)
		require.NoError(t, err)
		assert.Equal(t, src.Pix, out.Pix, "order %d", order)
	}
}

func TestWarpIntegerTranslation(t *testing.T) {
	t.Parallel()

	src := testPattern(t, 32, 32)
	out, err := Warp(src, geometry.Translation(3, 5), InterpBicubic)
	require.NoError(t, err)

	// Content moves forward by (3, 5); integer shifts are exact.
	for y := 5; y < 32; y++ {
		for x := 3; x < 32; x++ {
			assert.InDelta(t, src.At(x-3, y-5), out.At(x, y), 1e-12)
		}
	}
}

func TestWarpOutOfBoundsIsZero(t *testing.T) {
	t.Parallel()

	src, err := New(8, 8)
	require.NoError(t, err)
	for i := range src.Pix {
		src.Pix[i] = 1
	}

	out, err := Warp(src, geometry.Translation(4, 0), InterpBilinear)
	require.NoError(t, err)

	// The left columns were pulled from outside the source.
	for y := 0; y < 8; y++ {
		for x := 0; x < 3; x++ {
			assert.Zero(t, out.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, 1.0, out.At(5, 4))
}

func TestWarpInvalidInput(t *testing.T) {
	t.Parallel()

	src := testPattern(t, 8, 8)

	_, err := Warp(src, geometry.Identity(), 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Warp(nil, geometry.Identity(), InterpBilinear)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Warp(src, geometry.AffineTransform{}, InterpBilinear)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWarpRotationRoundTrip(t *testing.T) {
	t.Parallel()

	src := testPattern(t, 48, 48)
	fwd := geometry.Rigid(0.2, 2, -1)
	inv, ok := fwd.Inverse()
	require.True(t, ok)

	warped, err := Warp(src, fwd, InterpBicubic)
	require.NoError(t, err)
	back, err := Warp(warped, inv, InterpBicubic)
	require.NoError(t, err)

	// Away from the borders the round trip reproduces the source up to
	// interpolation error.
	var sum float64
	var n int
	for y := 8; y < 36; y++ {
		for x := 8; x < 36; x++ {
			d := src.At(x, y) - back.At(x, y)
			sum += d * d
			n++
		}
	}
	assert.Less(t, sum/float64(n), 1e-4)
}

package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// doubleWell is multimodal in its first coordinate: a local minimum near
// x=+0.96 and the global minimum near x=-1.03, separated by a barrier at
// the origin.
func doubleWell(x []float64) float64 {
	a := x[0]*x[0] - 1
	return a*a + 0.3*x[0] + x[1]*x[1] + x[2]*x[2]
}

func TestLocalSearchQuadratic(t *testing.T) {
	t.Parallel()

	obj := func(x []float64) float64 {
		return (x[0]-1.5)*(x[0]-1.5) + (x[1]+2)*(x[1]+2) + x[2]*x[2]
	}

	res, err := localSearch{}.Minimize(obj, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, res.Params[0], 1e-3)
	assert.InDelta(t, -2.0, res.Params[1], 1e-3)
	assert.InDelta(t, 0.0, res.Params[2], 1e-3)
	assert.Greater(t, res.Evals, 0)
}

func TestLocalSearchBudgetReturnsBestIterate(t *testing.T) {
	t.Parallel()

	obj := func(x []float64) float64 {
		return (x[0]-1.5)*(x[0]-1.5) + (x[1]+2)*(x[1]+2) + x[2]*x[2]
	}

	full, err := localSearch{}.Minimize(obj, []float64{0, 0, 0})
	require.NoError(t, err)

	// Six evaluations barely cover the initial simplex, so the search
	// stops long before convergence and hands back its best point so far.
	starved, err := localSearch{maxEvals: 6}.Minimize(obj, []float64{0, 0, 0})
	require.NoError(t, err)
	require.Len(t, starved.Params, 3)
	assert.Less(t, starved.Evals, full.Evals)
	assert.Greater(t, starved.Cost, full.Cost)

	capped, err := localSearch{maxIters: 2}.Minimize(obj, []float64{0, 0, 0})
	require.NoError(t, err)
	require.Len(t, capped.Params, 3)
	assert.Less(t, capped.Evals, full.Evals)
}

func TestLocalSearchStallsInLocalMinimum(t *testing.T) {
	t.Parallel()

	// Started inside the shallow right-hand well, Nelder-Mead cannot
	// cross the barrier.
	res, err := localSearch{}.Minimize(doubleWell, []float64{0.9, 0, 0})
	require.NoError(t, err)
	assert.Greater(t, res.Params[0], 0.0)
	assert.Greater(t, res.Cost, 0.0)
}

func TestBasinHoppingEscapesLocalMinimum(t *testing.T) {
	t.Parallel()

	hopper := &basinHopper{
		trials:   40,
		stepSize: 1.5,
		rng:      rand.New(rand.NewSource(7)),
	}

	res, err := hopper.Minimize(doubleWell, []float64{0.9, 0, 0})
	require.NoError(t, err)

	// The global minimum sits near x=-1.03 with a negative value the
	// right-hand well can never reach.
	assert.Less(t, res.Params[0], 0.0)
	assert.Less(t, res.Cost, -0.25)
}

func TestBasinHoppingKeepsBestAcrossTrials(t *testing.T) {
	t.Parallel()

	localRes, err := localSearch{}.Minimize(doubleWell, []float64{0.9, 0, 0})
	require.NoError(t, err)

	hopper := &basinHopper{
		trials:   40,
		stepSize: 1.5,
		rng:      rand.New(rand.NewSource(3)),
	}
	hopRes, err := hopper.Minimize(doubleWell, []float64{0.9, 0, 0})
	require.NoError(t, err)

	assert.LessOrEqual(t, hopRes.Cost, localRes.Cost)
	assert.Greater(t, hopRes.Evals, localRes.Evals)
}

func TestMethodString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "local", Local.String())
	assert.Equal(t, "basinhopping", BasinHopping.String())
	assert.Equal(t, "unknown", Method(99).String())
}

package register

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/optimize"
)

// Method selects the minimization strategy.
type Method int

const (
	// Local is derivative-free Nelder-Mead simplex search. Fast, but
	// converges to the nearest local minimum.
	Local Method = iota
	// BasinHopping repeatedly perturbs the best-known point and
	// re-minimizes locally, keeping the best result across all trials.
	// Slower, but can escape local minima.
	BasinHopping
)

func (m Method) String() string {
	switch m {
	case Local:
		return "local"
	case BasinHopping:
		return "basinhopping"
	default:
		return "unknown"
	}
}

// Result holds the outcome of one minimization.
type Result struct {
	Params []float64
	Cost   float64
	Evals  int
}

// Objective is a scalar function of a parameter vector.
type Objective func(x []float64) float64

// Minimizer is a single minimization strategy. Minimize runs until
// convergence or budget exhaustion and returns the best point found.
type Minimizer interface {
	Minimize(obj Objective, x0 []float64) (Result, error)
}

// localSearch wraps gonum's Nelder-Mead. Zero-valued limits keep the
// optimizer's own defaults.
type localSearch struct {
	maxEvals int
	maxIters int
}

func (l localSearch) settings() *optimize.Settings {
	if l.maxEvals <= 0 && l.maxIters <= 0 {
		return nil
	}
	return &optimize.Settings{
		FuncEvaluations: l.maxEvals,
		MajorIterations: l.maxIters,
	}
}

func (l localSearch) Minimize(obj Objective, x0 []float64) (Result, error) {
	problem := optimize.Problem{Func: obj}
	res, err := optimize.Minimize(problem, x0, l.settings(), &optimize.NelderMead{})
	if err != nil {
		// A budget-exhausted run still carries its best iterate; only
		// fail when the optimizer produced nothing usable.
		if res == nil || len(res.X) == 0 || math.IsNaN(res.F) {
			return Result{}, fmt.Errorf("local minimization: %w", err)
		}
	}

	params := make([]float64, len(res.X))
	copy(params, res.X)
	return Result{Params: params, Cost: res.F, Evals: res.Stats.FuncEvaluations}, nil
}

// basinHopper runs randomized-restart local minimization: each trial
// perturbs the best-known parameters by a uniform step and re-minimizes.
type basinHopper struct {
	trials   int
	stepSize float64
	rng      *rand.Rand
	local    localSearch
}

func (b *basinHopper) Minimize(obj Objective, x0 []float64) (Result, error) {
	best, err := b.local.Minimize(obj, x0)
	if err != nil {
		return Result{}, err
	}

	cand := make([]float64, len(x0))
	for trial := 1; trial < b.trials; trial++ {
		for i, v := range best.Params {
			cand[i] = v + b.stepSize*(2*b.rng.Float64()-1)
		}

		res, err := b.local.Minimize(obj, cand)
		if err != nil {
			continue
		}
		best.Evals += res.Evals
		if res.Cost < best.Cost {
			best.Params = res.Params
			best.Cost = res.Cost
		}
	}
	return best, nil
}

package register

import (
	"fmt"
	"log"
	"math"

	"golang.org/x/exp/rand"

	"imgreg/internal/imaging"
	"imgreg/pkg/geometry"
)

// Config controls the multi-resolution alignment.
type Config struct {
	// Levels is the pyramid depth. The coarsest level has index Levels,
	// the finest (original resolution) has index 1.
	Levels int
	// Method selects the minimization strategy used on the coarse levels.
	Method Method
	// GlobalDepth is the level index at or below which alignment always
	// falls back to local search, even when Method is BasinHopping: by
	// then the pyramid has narrowed the basin of attraction and global
	// search no longer pays for itself.
	GlobalDepth int
	// Trials is the number of basin-hopping restarts per level.
	Trials int
	// StepSize is the half-width of the uniform basin-hopping
	// perturbation.
	StepSize float64
	// MaxEvals caps cost evaluations per local search. Zero keeps the
	// optimizer's default budget. A search that runs out of budget
	// returns its best iterate so far, not an error.
	MaxEvals int
	// MaxIters caps major iterations per local search. Zero keeps the
	// optimizer's default.
	MaxIters int
	// Seed fixes the basin-hopping random source.
	Seed uint64
	// Debug logs per-level results.
	Debug bool
	// Progress, if set, is called after each pyramid level completes.
	Progress func(level int, r Result)
}

// DefaultConfig returns the default alignment configuration.
func DefaultConfig() Config {
	return Config{
		Levels:      6,
		Method:      Local,
		GlobalDepth: 4,
		Trials:      20,
		StepSize:    0.5,
		Seed:        1,
	}
}

// Alignment is the result of registering a target image against a
// reference.
type Alignment struct {
	// Transform maps target content onto the reference frame.
	Transform geometry.AffineTransform
	// Params is the final rigid parameter vector
	// (rotation, x translation, y translation).
	Params []float64
	// Cost is the final cost at full resolution.
	Cost float64
	// Evals counts cost evaluations across all levels.
	Evals int
}

// Align estimates the rigid transform minimizing cost between ref and a
// warped target, refining coarse to fine over Gaussian pyramids of both
// images. The parameter vector starts at zero (identity); before each
// level its translation components are doubled, since every step down the
// pyramid doubles the spatial resolution. The rotation component needs no
// rescaling. There is no rollback across levels: a poor minimum found at
// a coarse level propagates to the finer ones.
func Align(ref, target *imaging.Image, cost CostFunc, cfg Config) (*Alignment, error) {
	if cost == nil {
		return nil, fmt.Errorf("%w: nil cost function", imaging.ErrInvalidInput)
	}
	if ref == nil || !ref.SameSize(target) {
		return nil, fmt.Errorf("%w: alignment requires two images of identical size", imaging.ErrInvalidInput)
	}
	if cfg.Method == BasinHopping && (cfg.Trials < 1 || cfg.StepSize <= 0) {
		return nil, fmt.Errorf("%w: basin-hopping needs at least one trial and a positive step size", imaging.ErrInvalidInput)
	}

	refPyr, err := imaging.Pyramid(ref, cfg.Levels)
	if err != nil {
		return nil, fmt.Errorf("reference pyramid: %w", err)
	}
	tgtPyr, err := imaging.Pyramid(target, cfg.Levels)
	if err != nil {
		return nil, fmt.Errorf("target pyramid: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	p := make([]float64, ParamLen)
	var total Alignment

	for i := 0; i < cfg.Levels; i++ {
		level := cfg.Levels - i // Levels = coarsest, 1 = finest
		rescaleTranslation(p)

		refLvl, tgtLvl := refPyr[i], tgtPyr[i]
		obj := func(x []float64) float64 {
			c, err := cost(x, refLvl, tgtLvl)
			if err != nil {
				return math.Inf(1)
			}
			return c
		}

		res, err := cfg.minimizerFor(level, rng).Minimize(obj, p)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", level, err)
		}

		p = res.Params
		total.Cost = res.Cost
		total.Evals += res.Evals

		if cfg.Debug {
			log.Printf("level %d (%dx%d): cost=%.6g params=(%.4f, %.2f, %.2f) evals=%d",
				level, refLvl.Width, refLvl.Height, res.Cost, p[0], p[1], p[2], res.Evals)
		}
		if cfg.Progress != nil {
			cfg.Progress(level, res)
		}
	}

	total.Params = p
	total.Transform = geometry.Rigid(p[0], p[1], p[2])
	return &total, nil
}

// rescaleTranslation doubles the translation components of a parameter
// vector in place, carrying a coarse-level estimate to the next finer
// level. Rotation is resolution-independent and stays untouched.
func rescaleTranslation(p []float64) {
	p[1] *= 2
	p[2] *= 2
}

// minimizerFor picks the strategy for a pyramid level: basin-hopping on
// the coarse levels above GlobalDepth when requested, local search
// otherwise.
func (cfg Config) minimizerFor(level int, rng *rand.Rand) Minimizer {
	local := localSearch{maxEvals: cfg.MaxEvals, maxIters: cfg.MaxIters}
	if cfg.Method == BasinHopping && level > cfg.GlobalDepth {
		return &basinHopper{trials: cfg.Trials, stepSize: cfg.StepSize, rng: rng, local: local}
	}
	return local
}

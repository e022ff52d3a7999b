package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"imgreg/internal/imaging"
	"imgreg/internal/register"
)

var alignOpts struct {
	RefPath     string
	TargetPath  string
	Cost        string
	Method      string
	Levels      int
	GlobalDepth int
	Trials      int
	StepSize    float64
	MaxEvals    int
	MaxIters    int
	Seed        uint64
	OutPath     string
	OverlayPath string
	Debug       bool
}

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Estimate the rigid transform aligning a target image to a reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAlign()
	},
}

func init() {
	f := alignCmd.Flags()
	f.StringVarP(&alignOpts.RefPath, "ref", "r", "", "Reference image path")
	f.StringVarP(&alignOpts.TargetPath, "target", "t", "", "Target image path")
	f.StringVarP(&alignOpts.Cost, "cost", "c", "mse", "Cost function: mse or nmi")
	f.StringVarP(&alignOpts.Method, "method", "m", "local", "Coarse-level minimizer: local or basinhop")
	f.IntVarP(&alignOpts.Levels, "levels", "l", 6, "Pyramid levels")
	f.IntVar(&alignOpts.GlobalDepth, "global-depth", 4, "Level index at or below which local search is always used")
	f.IntVar(&alignOpts.Trials, "trials", 20, "Basin-hopping restarts per level")
	f.Float64Var(&alignOpts.StepSize, "step", 0.5, "Basin-hopping perturbation half-width")
	f.IntVar(&alignOpts.MaxEvals, "max-evals", 0, "Cost evaluation budget per local search (0 = optimizer default)")
	f.IntVar(&alignOpts.MaxIters, "max-iters", 0, "Iteration budget per local search (0 = optimizer default)")
	f.Uint64Var(&alignOpts.Seed, "seed", 1, "Basin-hopping random seed")
	f.StringVarP(&alignOpts.OutPath, "out", "o", "", "Write the aligned target as PNG")
	f.StringVar(&alignOpts.OverlayPath, "overlay", "", "Write a 50/50 overlay of reference and aligned target as PNG")
	f.BoolVarP(&alignOpts.Debug, "debug", "d", false, "Log per-level optimization results")

	alignCmd.MarkFlagRequired("ref")
	alignCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(alignCmd)
}

func runAlign() error {
	ref, err := imaging.Load(alignOpts.RefPath)
	if err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	target, err := imaging.Load(alignOpts.TargetPath)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	cost, err := parseCost(alignOpts.Cost)
	if err != nil {
		return err
	}
	method, err := parseMethod(alignOpts.Method)
	if err != nil {
		return err
	}

	cfg := register.Config{
		Levels:      alignOpts.Levels,
		Method:      method,
		GlobalDepth: alignOpts.GlobalDepth,
		Trials:      alignOpts.Trials,
		StepSize:    alignOpts.StepSize,
		MaxEvals:    alignOpts.MaxEvals,
		MaxIters:    alignOpts.MaxIters,
		Seed:        alignOpts.Seed,
		Debug:       alignOpts.Debug,
	}

	bar := progressbar.NewOptions(cfg.Levels,
		progressbar.OptionSetDescription("aligning"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	cfg.Progress = func(level int, r register.Result) {
		bar.Add(1)
	}

	al, err := register.Align(ref, target, cost, cfg)
	if err != nil {
		return fmt.Errorf("alignment failed: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	fmt.Printf("rotation:    %9.4f rad\n", al.Params[0])
	fmt.Printf("translation: (%8.3f, %8.3f) px\n", al.Params[1], al.Params[2])
	fmt.Printf("final cost:  %g (%s, %d evaluations)\n", al.Cost, alignOpts.Cost, al.Evals)
	fmt.Printf("transform:   %s\n", al.Transform)

	if alignOpts.OutPath != "" || alignOpts.OverlayPath != "" {
		warped, err := imaging.Warp(target, al.Transform, imaging.InterpBicubic)
		if err != nil {
			return fmt.Errorf("warping target: %w", err)
		}
		if alignOpts.OutPath != "" {
			if err := warped.SavePNG(alignOpts.OutPath); err != nil {
				return err
			}
		}
		if alignOpts.OverlayPath != "" {
			overlay, err := imaging.Overlay(ref, warped, 0.5)
			if err != nil {
				return fmt.Errorf("overlay: %w", err)
			}
			if err := overlay.SavePNG(alignOpts.OverlayPath); err != nil {
				return err
			}
		}
	}
	return nil
}

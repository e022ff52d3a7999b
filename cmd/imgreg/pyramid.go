package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"imgreg/internal/imaging"
)

var pyramidOpts struct {
	InputPath string
	Levels    int
	OutDir    string
}

var pyramidCmd = &cobra.Command{
	Use:   "pyramid",
	Short: "Write each Gaussian pyramid level of an image as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPyramid()
	},
}

func init() {
	f := pyramidCmd.Flags()
	f.StringVarP(&pyramidOpts.InputPath, "input", "i", "", "Input image path")
	f.IntVarP(&pyramidOpts.Levels, "levels", "l", 6, "Pyramid levels")
	f.StringVarP(&pyramidOpts.OutDir, "out-dir", "o", "pyramid", "Output directory")

	pyramidCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(pyramidCmd)
}

func runPyramid() error {
	src, err := imaging.Load(pyramidOpts.InputPath)
	if err != nil {
		return err
	}

	pyr, err := imaging.Pyramid(src, pyramidOpts.Levels)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(pyramidOpts.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	// Level indices count down from the coarsest, matching the aligner.
	for i, lvl := range pyr {
		level := len(pyr) - i
		path := filepath.Join(pyramidOpts.OutDir, fmt.Sprintf("level_%02d.png", level))
		if err := lvl.SavePNG(path); err != nil {
			return err
		}
		fmt.Printf("level %d: %dx%d -> %s\n", level, lvl.Width, lvl.Height, path)
	}
	return nil
}

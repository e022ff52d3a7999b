// Command imgreg registers grayscale images by rigid transform estimation:
// align two images, inspect Gaussian pyramids, or plot cost profiles.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"imgreg/internal/register"
	"imgreg/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "imgreg",
	Short:   "Rigid image registration by multi-resolution optimization",
	Version: version.String(),
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseCost resolves a cost flag value.
func parseCost(name string) (register.CostFunc, error) {
	switch name {
	case "mse":
		return register.MSE, nil
	case "nmi":
		return register.NMI, nil
	default:
		return nil, fmt.Errorf("unknown cost function %q (want mse or nmi)", name)
	}
}

// parseMethod resolves a method flag value.
func parseMethod(name string) (register.Method, error) {
	switch name {
	case "local":
		return register.Local, nil
	case "basinhop", "basinhopping":
		return register.BasinHopping, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want local or basinhop)", name)
	}
}

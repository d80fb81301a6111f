package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbeamline/beamplot/pkg/tao"
)

var (
	// Global flags
	verbose    bool
	engineExec string
	engineArgs []string
)

var rootCmd = &cobra.Command{
	Use:   "beamplot",
	Short: "Beamplot - lattice and beam graph viewer",
	Long: `Beamplot composes simulation engine plot output into drawable graphs:
  - data graphs (curves, wave analysis overlays, histograms)
  - lattice layouts (element boxes along the beamline)
  - floor plans (machine geometry with orbits and building walls)

The engine is driven either live over a pipe (--exec) or from a recorded
session file.

Examples:
  beamplot view session.sexp                  # View a recorded session
  beamplot view --exec tao -- -init tao.init  # Drive a live engine
  beamplot graphs session.sexp                # List regions and placements
  beamplot record --exec tao -o session.sexp  # Record engine output`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&engineExec, "exec", "e", "", "engine executable to drive over a pipe")
	rootCmd.PersistentFlags().StringSliceVar(&engineArgs, "engine-arg", nil, "extra argument passed to the engine (repeatable)")

	cobra.OnInitialize(func() {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	})
}

// openConn connects to the engine: a live pipe when --exec is given,
// otherwise a replay of the recorded session file named by args.
func openConn(ctx context.Context, args []string) (tao.Conn, error) {
	if engineExec != "" {
		return tao.StartPipe(ctx, engineExec, engineArgs...)
	}
	if len(args) < 1 {
		return nil, fmt.Errorf("need a session file or --exec")
	}
	return tao.OpenReplay(args[0])
}

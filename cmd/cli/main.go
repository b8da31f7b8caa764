// Command swerve-sim reads a YAML motion plan, runs the simulation, and
// writes the per-tick state file and trajectory figures to an output
// directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"

	"github.com/pvandervelde/basic-swerve-sim/internal/engine"
	"github.com/pvandervelde/basic-swerve-sim/internal/output"
	"github.com/pvandervelde/basic-swerve-sim/internal/plan"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		outDir    string
		rateHz    float64
		generator string
		noPlots   bool
	)

	cmd := &cobra.Command{
		Use:   "swerve-sim <plan.yaml> [plan.yaml ...]",
		Short: "Simulate swerve drive motion plans",
		Long: `swerve-sim runs one or more YAML motion plans through the swerve drive
simulator. Each plan produces a CSV state file with one row per tick and a
set of trajectory figures, written to a subdirectory of the output
directory named after the plan.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := golog.NewDevelopmentLogger("swerve-sim")
			for _, path := range args {
				if err := runPlanFile(path, outDir, rateHz, generator, !noPlots, logger); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "results", "directory for state files and figures")
	cmd.Flags().Float64VarP(&rateHz, "rate", "r", engine.DefaultRateHz, "simulation tick rate in Hz")
	cmd.Flags().StringVarP(&generator, "profile", "p", "", "override the plan's motion profile generator (linear, trapezoidal)")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "write the state file only, skip the figures")
	return cmd
}

func runPlanFile(path, outDir string, rateHz float64, generator string, plots bool, logger golog.Logger) error {
	p, err := plan.LoadFile(path)
	if err != nil {
		return err
	}
	if generator != "" {
		p.GeneratorName = generator
	}

	logger.Infow("running plan", "name", p.Name, "rate_hz", rateHz)
	simLog, err := engine.RunPlan(p, rateHz, logger)
	if err != nil {
		return err
	}

	dir := filepath.Join(outDir, p.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := output.WriteCSV(filepath.Join(dir, "states.csv"), simLog); err != nil {
		return err
	}
	if plots {
		if err := output.WritePlots(dir, simLog); err != nil {
			return err
		}
	}

	logger.Infow("plan complete", "name", p.Name, "ticks", len(simLog.Rows), "output", dir)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lps-sim/lps-sim/sim/experiment"
	"github.com/lps-sim/lps-sim/sim/results"
)

var (
	sweepFlags        simFlags
	sweepConfigPath   string // Experiment YAML file
	sweepRhos         string // Comma-separated rho list
	sweepReplications int    // Independent runs per rho
	sweepDBPath       string // SQLite results database
)

// sweepCmd runs the simulation over a table of rhos
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the simulation over a table of utilizations",
	Long: `Run the simulation at every rho of an experiment and print one line per rho.

The experiment comes from --config when given; explicitly set flags override
its values. Without --rhos or a rhos list in the file, the built-in 52-value
table is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := buildSweepSpec(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		dist, err := spec.Dist()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if err := writeHeader(os.Stdout, spec.NumJobs, spec.NumServers, spec.Seed, dist.String()); err != nil {
			logrus.Fatalf("Failed to write output: %v", err)
		}
		res, err := experiment.Sweep(cmd.Context(), spec)
		// Print what finished even if the sweep was interrupted.
		for _, r := range res {
			fmt.Println(formatResult(r))
		}
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		if sweepDBPath == "" {
			return
		}
		store, err := results.Open(cmd.Context(), sweepDBPath)
		if err != nil {
			logrus.Fatalf("Failed to open results database: %v", err)
		}
		defer store.Close()
		id, err := store.SaveSweep(cmd.Context(), spec, res)
		if err != nil {
			logrus.Fatalf("Failed to save sweep: %v", err)
		}
		logrus.Infof("Saved sweep %d to %s", id, sweepDBPath)
	},
}

// buildSweepSpec merges --config with the sweep flags and validates the result.
func buildSweepSpec(cmd *cobra.Command) (*experiment.Spec, error) {
	spec, err := sweepFlags.experimentSpec(cmd, sweepConfigPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("rhos") {
		rhos, err := parseRhos(sweepRhos)
		if err != nil {
			return nil, err
		}
		spec.Rhos = rhos
	}
	if flags.Changed("replications") {
		spec.Replications = sweepReplications
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	return spec, nil
}

// addExperimentFlags registers the flags that describe a sweep. sweep and
// config share them so both see the same experiment.
func addExperimentFlags(cmd *cobra.Command) {
	addSimFlags(cmd.Flags(), &sweepFlags)
	cmd.Flags().StringVar(&sweepConfigPath, "config", "", "Path to an experiment YAML file")
	cmd.Flags().StringVar(&sweepRhos, "rhos", "", "Comma-separated utilizations, e.g. 0.1,0.5,0.9")
	cmd.Flags().IntVar(&sweepReplications, "replications", 1, "Independent runs per rho")
}

func init() {
	addExperimentFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepDBPath, "db", "", "Save the sweep to this SQLite database")
}

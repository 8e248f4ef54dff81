package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lps-sim/lps-sim/sim"
	"github.com/lps-sim/lps-sim/sim/experiment"
)

var (
	runFlags simFlags
	runRho   float64 // Arrival rate of the single run
)

// runCmd executes one simulation at a single rho
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its mean response time",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := runFlags.experimentSpec(cmd, "")
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		spec.Rhos = []float64{runRho}
		if err := spec.Validate(); err != nil {
			logrus.Fatalf("Invalid run: %v", err)
		}
		dist, err := spec.Dist()
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if err := writeHeader(os.Stdout, spec.NumJobs, spec.NumServers, spec.Seed, dist.String()); err != nil {
			logrus.Fatalf("Failed to write output: %v", err)
		}
		if runRho >= 1 {
			logrus.Warnf("rho=%v is not a stable load; the run may not terminate", runRho)
		}
		mean, err := sim.Simulate(spec.NumServers, spec.NumJobs, dist, runRho, spec.Seed)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		res := experiment.Summarize(runRho, []float64{mean})
		fmt.Println(formatResult(res))
	},
}

func init() {
	addSimFlags(runCmd.Flags(), &runFlags)
	runCmd.Flags().Float64Var(&runRho, "rho", 0.5, "Arrival rate, equal to the utilization since mean job size is 1")
}

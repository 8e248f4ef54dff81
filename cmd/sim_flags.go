package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lps-sim/lps-sim/sim/experiment"
	"github.com/lps-sim/lps-sim/sim/workload"
)

// simFlags holds the per-run parameters shared by run, sweep and config.
type simFlags struct {
	numServers int     // Number of service slots
	numJobs    int64   // Completions per run
	seed       uint64  // Seed of each run's RNG stream
	distType   string  // Job-size distribution type
	rate       float64 // exponential: rate
	lowRate    float64 // hyperexponential: low_rate
	highRate   float64 // hyperexponential: high_rate
	probLow    float64 // hyperexponential: prob_low
	value      float64 // deterministic: value
}

// distFlagNames are the flags that describe the job-size distribution.
var distFlagNames = []string{"dist", "rate", "low-rate", "high-rate", "prob-low", "value"}

func addSimFlags(flags *pflag.FlagSet, f *simFlags) {
	flags.IntVar(&f.numServers, "servers", 2, "Number of service slots; capacity 1 is split into this many equal shares")
	flags.Int64Var(&f.numJobs, "jobs", 10_000_000, "Number of job completions per run")
	flags.Uint64Var(&f.seed, "seed", 0, "Seed for the run's random stream")

	flags.StringVar(&f.distType, "dist", string(workload.KindHyperexponential), "Job-size distribution (hyperexponential, exponential, deterministic)")
	flags.Float64Var(&f.rate, "rate", 1.0, "exponential: rate")
	flags.Float64Var(&f.lowRate, "low-rate", 1.0, "hyperexponential: rate of the phase picked when a uniform draw exceeds prob-low")
	flags.Float64Var(&f.highRate, "high-rate", 1.0, "hyperexponential: rate of the other phase")
	flags.Float64Var(&f.probLow, "prob-low", 1.0, "hyperexponential: phase-selection threshold")
	flags.Float64Var(&f.value, "value", 1.0, "deterministic: job size")
}

// distSpec returns the DistSpec described by the flags. Only the parameters
// of the selected type are included.
func (f *simFlags) distSpec() workload.DistSpec {
	spec := workload.DistSpec{Type: f.distType, Params: map[string]float64{}}
	switch workload.DistKind(f.distType) {
	case workload.KindHyperexponential:
		spec.Params["low_rate"] = f.lowRate
		spec.Params["high_rate"] = f.highRate
		spec.Params["prob_low"] = f.probLow
	case workload.KindExponential:
		spec.Params["rate"] = f.rate
	case workload.KindDeterministic:
		spec.Params["value"] = f.value
	}
	return spec
}

// experimentSpec builds the effective experiment from an optional YAML file
// and the command's flags. Flags override file values only when explicitly
// set; if any distribution flag is set the whole distribution comes from flags.
func (f *simFlags) experimentSpec(cmd *cobra.Command, configPath string) (*experiment.Spec, error) {
	spec := &experiment.Spec{}
	if configPath != "" {
		loaded, err := experiment.LoadSpec(configPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	flags := cmd.Flags()
	fromFile := configPath != ""

	if !fromFile || flags.Changed("servers") {
		spec.NumServers = f.numServers
	}
	if !fromFile || flags.Changed("jobs") {
		spec.NumJobs = f.numJobs
	}
	if !fromFile || flags.Changed("seed") {
		spec.Seed = f.seed
	}
	distChanged := false
	for _, name := range distFlagNames {
		distChanged = distChanged || flags.Changed(name)
	}
	if !fromFile || distChanged {
		spec.Distribution = f.distSpec()
	}
	spec.ApplyDefaults()

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	return spec, nil
}

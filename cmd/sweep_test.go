package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lps-sim/lps-sim/sim"
	"github.com/lps-sim/lps-sim/sim/experiment"
	"github.com/lps-sim/lps-sim/sim/workload"
)

const testExperimentYAML = `
num_servers: 4
num_jobs: 1000
seed: 3
replications: 2
distribution:
  type: exponential
  params:
    rate: 1
rhos: [0.2, 0.4]
`

// newSweepTestCmd returns a command carrying the sweep flags, parsed from args.
// Registering the flags resets the shared flag variables to their defaults.
func newSweepTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "sweep-test"}
	addExperimentFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeExperiment(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildSweepSpec_FlagDefaults(t *testing.T) {
	spec, err := buildSweepSpec(newSweepTestCmd(t))
	require.NoError(t, err)

	assert.Equal(t, 2, spec.NumServers)
	assert.Equal(t, int64(10_000_000), spec.NumJobs)
	assert.Equal(t, uint64(0), spec.Seed)
	assert.Equal(t, 1, spec.Replications)
	assert.Equal(t, experiment.DefaultRhos, spec.Rhos)

	dist, err := spec.Dist()
	require.NoError(t, err)
	assert.Equal(t, workload.Hyperexponential(1, 1, 1), dist)
}

func TestBuildSweepSpec_FlagsOnly(t *testing.T) {
	spec, err := buildSweepSpec(newSweepTestCmd(t,
		"--servers", "3", "--jobs", "500", "--seed", "9",
		"--dist", "deterministic", "--value", "1",
		"--rhos", "0.3,0.6", "--replications", "4"))
	require.NoError(t, err)

	assert.Equal(t, 3, spec.NumServers)
	assert.Equal(t, int64(500), spec.NumJobs)
	assert.Equal(t, uint64(9), spec.Seed)
	assert.Equal(t, 4, spec.Replications)
	assert.Equal(t, []float64{0.3, 0.6}, spec.Rhos)
	assert.Equal(t, workload.DistSpec{Type: "deterministic", Params: map[string]float64{"value": 1}}, spec.Distribution)
}

func TestBuildSweepSpec_ConfigFile(t *testing.T) {
	path := writeExperiment(t, testExperimentYAML)

	t.Run("file values without overrides", func(t *testing.T) {
		spec, err := buildSweepSpec(newSweepTestCmd(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, 4, spec.NumServers)
		assert.Equal(t, int64(1000), spec.NumJobs)
		assert.Equal(t, uint64(3), spec.Seed)
		assert.Equal(t, 2, spec.Replications)
		assert.Equal(t, []float64{0.2, 0.4}, spec.Rhos)
		assert.Equal(t, "exponential", spec.Distribution.Type)
	})

	t.Run("explicit flags override the file", func(t *testing.T) {
		spec, err := buildSweepSpec(newSweepTestCmd(t, "--config", path, "--servers", "1", "--rhos", "0.7"))
		require.NoError(t, err)
		assert.Equal(t, 1, spec.NumServers)
		assert.Equal(t, int64(1000), spec.NumJobs, "unset flag must not override the file")
		assert.Equal(t, []float64{0.7}, spec.Rhos)
		assert.Equal(t, "exponential", spec.Distribution.Type)
	})

	t.Run("any distribution flag replaces the whole distribution", func(t *testing.T) {
		spec, err := buildSweepSpec(newSweepTestCmd(t, "--config", path, "--dist", "hyperexponential",
			"--low-rate", "2", "--high-rate", "0.6666666666666666", "--prob-low", "0.5"))
		require.NoError(t, err)
		dist, err := spec.Dist()
		require.NoError(t, err)
		assert.Equal(t, workload.KindHyperexponential, dist.Kind)
		assert.InDelta(t, 1.0, dist.Mean(), sim.Epsilon)
	})
}

func TestBuildSweepSpec_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unnormalized distribution", []string{"--dist", "exponential", "--rate", "2"}},
		{"unknown distribution", []string{"--dist", "pareto"}},
		{"zero servers", []string{"--servers", "0"}},
		{"zero replications", []string{"--rhos", "0.5", "--replications", "0"}},
		{"bad rho list", []string{"--rhos", "x"}},
		{"non-positive rho", []string{"--rhos", "0.5,-1"}},
		{"missing config file", []string{"--config", "/nonexistent/experiment.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildSweepSpec(newSweepTestCmd(t, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestBuildSweepSpec_UnnormalizedIsReported(t *testing.T) {
	_, err := buildSweepSpec(newSweepTestCmd(t, "--dist", "exponential", "--rate", "2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrNotNormalized)
}

func TestWriteSpec_LoadsBack(t *testing.T) {
	spec, err := buildSweepSpec(newSweepTestCmd(t, "--servers", "3", "--jobs", "500", "--seed", "18446744073709551615",
		"--rhos", "0.1,0.9", "--replications", "2"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSpec(&buf, spec))

	loaded, err := experiment.LoadSpec(writeExperiment(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, spec, loaded)
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lps-sim/lps-sim/sim/workload"
)

// unitExp is the exponential job-size distribution with mean 1, written as a
// hyperexponential with equal phase rates.
var unitExp = workload.Hyperexponential(1, 1, 1)

// newTestSimulator builds a Simulator and fails the test on a config error.
func newTestSimulator(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	return s
}

// newScriptedSimulator returns a Simulator with a hand-placed active set and
// next arrival, for exact step-by-step scenarios. Arrivals it admits draw from
// a deterministic size distribution.
func newScriptedSimulator(t *testing.T, numServers int, numJobs int64, nextArrival float64, jobs ...Job) *Simulator {
	t.Helper()
	s := newTestSimulator(t, Config{
		NumServers: numServers,
		NumJobs:    numJobs,
		Dist:       workload.Deterministic(1),
		Rho:        1,
		Seed:       1,
	})
	s.NextArrival = nextArrival
	s.active = append(s.active[:0], jobs...)
	return s
}

package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lps-sim/lps-sim/sim"
)

// ConfidenceLevel is the two-sided level of Result.CIHalfWidth.
const ConfidenceLevel = 0.95

// Result summarises all replications run at one rho.
type Result struct {
	Rho          float64
	MeanResponse float64   // mean of Replications
	StdDev       float64   // sample standard deviation; 0 with one replication
	CIHalfWidth  float64   // Student-t half-width at ConfidenceLevel; 0 with one replication
	PSReference  float64   // processor-sharing mean sojourn 1/(1-rho); +Inf when rho >= 1
	Replications []float64 // per-replication mean response times, in replication order
}

// Sweep runs every (rho, replication) pair of spec sequentially, rhos in the
// order given. Replication i of every rho uses the seed
// sim.NewSimulationKey(spec.Seed).Replication(i), so with one replication each
// rho uses spec.Seed directly.
//
// ctx is checked between runs; a single run is never interrupted.
func Sweep(ctx context.Context, spec *Spec) ([]Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment: %w", err)
	}
	dist, err := spec.Dist()
	if err != nil {
		return nil, err
	}
	key := sim.NewSimulationKey(spec.Seed)

	results := make([]Result, 0, len(spec.Rhos))
	for _, rho := range spec.Rhos {
		if rho >= 1 {
			logrus.Warnf("rho=%v is not a stable load; the run may not terminate", rho)
		}
		reps := make([]float64, 0, spec.Replications)
		for i := 0; i < spec.Replications; i++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			r, err := sim.Simulate(spec.NumServers, spec.NumJobs, dist, rho, uint64(key.Replication(i)))
			if err != nil {
				return results, fmt.Errorf("rho=%v replication %d: %w", rho, i, err)
			}
			reps = append(reps, r)
		}
		res := Summarize(rho, reps)
		logrus.Infof("rho=%v mean_response=%.6f ci=±%.6f (%d replications)",
			rho, res.MeanResponse, res.CIHalfWidth, len(reps))
		results = append(results, res)
	}
	return results, nil
}

// Summarize computes the statistics of a set of replication results.
func Summarize(rho float64, reps []float64) Result {
	res := Result{
		Rho:          rho,
		PSReference:  PSReference(rho),
		Replications: reps,
	}
	switch len(reps) {
	case 0:
		res.MeanResponse = math.NaN()
	case 1:
		res.MeanResponse = reps[0]
	default:
		res.MeanResponse, res.StdDev = stat.MeanStdDev(reps, nil)
		n := float64(len(reps))
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}.Quantile(1 - (1-ConfidenceLevel)/2)
		res.CIHalfWidth = t * res.StdDev / math.Sqrt(n)
	}
	return res
}

// PSReference returns the M/G/1 processor-sharing mean sojourn time for unit
// mean job size, 1/(1-rho). Shortest-remaining-work on one slot never does
// worse than this.
func PSReference(rho float64) float64 {
	if rho >= 1 {
		return math.Inf(1)
	}
	return 1 / (1 - rho)
}

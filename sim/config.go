package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/lps-sim/lps-sim/sim/workload"
)

var (
	// ErrInvalidConfig wraps every precondition failure reported by NewSimulator.
	ErrInvalidConfig = errors.New("invalid simulation config")

	// ErrNotNormalized is returned when the job-size distribution does not
	// have mean 1 within Epsilon. It always appears together with ErrInvalidConfig.
	ErrNotNormalized = errors.New("job-size distribution mean is not 1")
)

// Config groups the parameters of one simulation run.
type Config struct {
	NumServers int           // Service slots; total capacity 1 is split into NumServers equal shares (>= 1)
	NumJobs    int64         // Completions after which the run stops (>= 1)
	Dist       workload.Dist // Job-size distribution; Mean() must be 1
	Rho        float64       // Arrival rate, equal to utilization since capacity is 1 (> 0)
	Seed       uint64        // Seed of the run's single RNG stream
}

// Validate checks the run preconditions. It performs no sampling.
func (c Config) Validate() error {
	if c.NumServers < 1 {
		return fmt.Errorf("%w: num_servers must be >= 1, got %d", ErrInvalidConfig, c.NumServers)
	}
	if c.NumJobs < 1 {
		return fmt.Errorf("%w: num_jobs must be >= 1, got %d", ErrInvalidConfig, c.NumJobs)
	}
	if !(c.Rho > 0) || math.IsInf(c.Rho, 1) {
		return fmt.Errorf("%w: rho must be positive and finite, got %v", ErrInvalidConfig, c.Rho)
	}
	if !c.Dist.Kind.IsValid() {
		return fmt.Errorf("%w: unknown distribution kind %q", ErrInvalidConfig, c.Dist.Kind)
	}
	if mean := c.Dist.Mean(); !(math.Abs(mean-1) < Epsilon) {
		return fmt.Errorf("%w: %w: %v has mean %v", ErrInvalidConfig, ErrNotNormalized, c.Dist, mean)
	}
	return nil
}

// Defines the Job struct that models one unit of work in the simulation.

package sim

// Epsilon is the remaining-work threshold below which a job counts as
// complete. It also bounds how far floating-point drift may push
// RemainingWork below zero.
const Epsilon = 1e-8

// Job is a single job in the system.
type Job struct {
	ArrivalTime   float64 // Simulated time the job entered the system; never changes
	RemainingWork float64 // Work left; only decreased by Simulator.Step
}

// Done reports whether the job's remaining work has dropped below Epsilon.
func (j Job) Done() bool {
	return j.RemainingWork < Epsilon
}

// Package sim provides the discrete-event simulation engine for limited
// processor sharing with shortest-remaining-work admission (LPS-SRW).
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go: Job and the Epsilon completion threshold
//   - config.go: run parameters and their preconditions
//   - simulator.go: the event loop (sort, next event, advance, complete, admit)
//   - metrics.go: statistics accumulated during a run
//
// # Architecture
//
// The engine depends only on sim/workload, which supplies job-size
// distributions and the Poisson arrival sampler. Supporting layers live in
// sub-packages:
//   - sim/workload/: Dist (closed set of job-size variants) and arrivals
//   - sim/experiment/: rho sweeps, replications, confidence intervals
//   - sim/results/: SQLite persistence of sweep summaries
//
// A run is fully determined by its Config. All state, including the single
// RNG stream, belongs to one Simulator; there is no package-level mutable state.
package sim

// Tracks run-wide statistics: completions, response-time sum and the
// occupancy integral used for Little's law checks.

package sim

import "fmt"

// Metrics aggregates statistics about one simulation run.
type Metrics struct {
	Completions int64   // Number of jobs completed
	ResponseSum float64 // Sum of response times (completion - arrival)

	Arrivals        int64   // Number of jobs admitted to the active set
	ArrivalSteps    int64   // Steps classified as arrivals
	CompletionSteps int64   // Steps classified as completions (ties included)
	PeakInSystem    int     // Max active-set size observed at the start of a step
	AreaInSystem    float64 // Integral of active-set size over simulated time
	SimEndedTime    float64 // Clock value when the run stopped
}

// NewMetrics returns zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MeanResponseTime returns the average response time over completed jobs,
// or 0 if nothing has completed.
func (m *Metrics) MeanResponseTime() float64 {
	if m.Completions == 0 {
		return 0
	}
	return m.ResponseSum / float64(m.Completions)
}

// MeanNumberInSystem returns the time-average active-set size.
func (m *Metrics) MeanNumberInSystem() float64 {
	if m.SimEndedTime == 0 {
		return 0
	}
	return m.AreaInSystem / m.SimEndedTime
}

// Throughput returns completions per unit of simulated time.
func (m *Metrics) Throughput() float64 {
	if m.SimEndedTime == 0 {
		return 0
	}
	return float64(m.Completions) / m.SimEndedTime
}

func (m *Metrics) String() string {
	return fmt.Sprintf("completions=%d arrivals=%d steps=%d/%d mean_response=%.6f mean_in_system=%.4f peak_in_system=%d sim_time=%.2f",
		m.Completions, m.Arrivals, m.ArrivalSteps, m.CompletionSteps,
		m.MeanResponseTime(), m.MeanNumberInSystem(), m.PeakInSystem, m.SimEndedTime)
}

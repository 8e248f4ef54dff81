package workload

import "math/rand"

// PoissonArrivals generates exponentially-distributed inter-arrival gaps
// (CV=1) for a Poisson arrival process.
type PoissonArrivals struct {
	rate float64 // arrivals per unit of simulated time
}

// NewPoissonArrivals creates an arrival sampler with the given rate.
// The rate is checked on first use, not here.
func NewPoissonArrivals(rate float64) *PoissonArrivals {
	return &PoissonArrivals{rate: rate}
}

// Rate returns the arrival rate.
func (p *PoissonArrivals) Rate() float64 {
	return p.rate
}

// SampleGap returns the next inter-arrival gap.
// Panics if the rate is not positive.
func (p *PoissonArrivals) SampleGap(rng *rand.Rand) float64 {
	return sampleExp(rng, p.rate)
}

package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// DistKind tags the variant held by a Dist.
type DistKind string

const (
	KindHyperexponential DistKind = "hyperexponential"
	KindExponential      DistKind = "exponential"
	KindDeterministic    DistKind = "deterministic"
)

// IsValid reports whether k names a known variant.
func (k DistKind) IsValid() bool {
	switch k {
	case KindHyperexponential, KindExponential, KindDeterministic:
		return true
	}
	return false
}

// Dist is a job-size distribution. It is a closed set of variants selected by
// Kind; only the fields of the active variant are meaningful.
//
// Dist is a plain value: copying it is safe and it never holds an RNG.
type Dist struct {
	Kind DistKind

	LowRate  float64 // hyperexponential
	HighRate float64 // hyperexponential
	ProbLow  float64 // hyperexponential
	Rate     float64 // exponential
	Value    float64 // deterministic
}

// Hyperexponential returns a two-phase exponential mixture.
// Each draw picks lowRate when a uniform draw exceeds probLow and highRate
// otherwise, then samples an exponential at the chosen rate.
func Hyperexponential(lowRate, highRate, probLow float64) Dist {
	return Dist{Kind: KindHyperexponential, LowRate: lowRate, HighRate: highRate, ProbLow: probLow}
}

// Exponential returns a single exponential phase with the given rate.
func Exponential(rate float64) Dist {
	return Dist{Kind: KindExponential, Rate: rate}
}

// Deterministic returns a distribution that always yields value.
func Deterministic(value float64) Dist {
	return Dist{Kind: KindDeterministic, Value: value}
}

// Sample draws one variate from d using rng.
// Panics if a phase rate is not positive or the kind is unknown.
func (d Dist) Sample(rng *rand.Rand) float64 {
	switch d.Kind {
	case KindHyperexponential:
		mu := d.HighRate
		if rng.Float64() > d.ProbLow {
			mu = d.LowRate
		}
		return sampleExp(rng, mu)
	case KindExponential:
		return sampleExp(rng, d.Rate)
	case KindDeterministic:
		return d.Value
	default:
		panic(fmt.Sprintf("unhandled distribution kind %q", d.Kind))
	}
}

// Mean returns the analytic expected value of d.
func (d Dist) Mean() float64 {
	switch d.Kind {
	case KindHyperexponential:
		return d.ProbLow/d.LowRate + (1-d.ProbLow)/d.HighRate
	case KindExponential:
		return 1 / d.Rate
	case KindDeterministic:
		return d.Value
	default:
		panic(fmt.Sprintf("unhandled distribution kind %q", d.Kind))
	}
}

func (d Dist) String() string {
	switch d.Kind {
	case KindHyperexponential:
		return fmt.Sprintf("Hyperexp(%v, %v, %v)", d.LowRate, d.HighRate, d.ProbLow)
	case KindExponential:
		return fmt.Sprintf("Exp(%v)", d.Rate)
	case KindDeterministic:
		return fmt.Sprintf("Det(%v)", d.Value)
	default:
		return fmt.Sprintf("Unknown(%q)", d.Kind)
	}
}

// sampleExp draws from an exponential distribution with rate mu.
// A non-positive or non-finite rate is a programming error and panics.
func sampleExp(rng *rand.Rand, mu float64) float64 {
	if !(mu > 0) || math.IsInf(mu, 1) {
		panic(fmt.Sprintf("exponential rate must be positive and finite, got %v", mu))
	}
	return rng.ExpFloat64() / mu
}

// DistSpec is the configuration form of a Dist, as it appears in experiment
// YAML files.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

func requirePositive(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		v := params[k]
		if !(v > 0) || math.IsInf(v, 1) {
			return fmt.Errorf("parameter %q must be positive and finite, got %v", k, v)
		}
	}
	return nil
}

// NewDist creates a Dist from a DistSpec.
// Unlike Sample, it reports bad parameters as errors since specs come from
// user-supplied files and flags.
func NewDist(spec DistSpec) (Dist, error) {
	switch DistKind(spec.Type) {
	case KindHyperexponential:
		if err := requireParam(spec.Params, "low_rate", "high_rate", "prob_low"); err != nil {
			return Dist{}, err
		}
		if err := requirePositive(spec.Params, "low_rate", "high_rate"); err != nil {
			return Dist{}, err
		}
		p := spec.Params["prob_low"]
		if p < 0 || p > 1 || math.IsNaN(p) {
			return Dist{}, fmt.Errorf("parameter \"prob_low\" must be in [0, 1], got %v", p)
		}
		return Hyperexponential(spec.Params["low_rate"], spec.Params["high_rate"], p), nil

	case KindExponential:
		if err := requireParam(spec.Params, "rate"); err != nil {
			return Dist{}, err
		}
		if err := requirePositive(spec.Params, "rate"); err != nil {
			return Dist{}, err
		}
		return Exponential(spec.Params["rate"]), nil

	case KindDeterministic:
		if err := requireParam(spec.Params, "value"); err != nil {
			return Dist{}, err
		}
		if err := requirePositive(spec.Params, "value"); err != nil {
			return Dist{}, err
		}
		return Deterministic(spec.Params["value"]), nil

	default:
		return Dist{}, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

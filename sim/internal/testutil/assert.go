// Package testutil provides float assertion helpers shared by the sim test
// packages and its sub-packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Within checks that got lies in [want-absTol, want+absTol].
func AssertFloat64Within(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(want-got) > absTol {
		t.Errorf("%s: got %v, want %v ± %v", name, got, want, absTol)
	}
}

// AssertStrictlyIncreasing checks that values is strictly increasing.
func AssertStrictlyIncreasing(t *testing.T, name string, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if !(values[i] > values[i-1]) {
			t.Errorf("%s: value %d (%v) not greater than value %d (%v); all=%v",
				name, i, values[i], i-1, values[i-1], values)
			return
		}
	}
}

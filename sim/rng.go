package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey uint64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed uint64) SimulationKey {
	return SimulationKey(seed)
}

// NewRand returns a fresh RNG stream seeded from the key.
// Every call returns an independent stream starting at the same state.
func (k SimulationKey) NewRand() *rand.Rand {
	return rand.New(rand.NewSource(int64(k)))
}

// Replication derives the key of the i-th independent replication.
//
// Derivation formula:
//   - i == 0: the key itself, so a single-replication sweep uses the seed as given
//   - i > 0:  key XOR fnv1a64("replication_<i>")
func (k SimulationKey) Replication(i int) SimulationKey {
	if i == 0 {
		return k
	}
	return k ^ SimulationKey(fnv1a64(fmt.Sprintf("replication_%d", i)))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

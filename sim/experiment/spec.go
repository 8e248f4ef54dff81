package experiment

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lps-sim/lps-sim/sim"
	"github.com/lps-sim/lps-sim/sim/workload"
)

// DefaultRhos is the utilization table swept when a spec lists no rhos.
// It is dense near 1, where mean response time changes fastest.
var DefaultRhos = []float64{
	0.01, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5, 0.55, 0.6, 0.65, 0.7, 0.72,
	0.74, 0.76, 0.78, 0.8, 0.82, 0.84, 0.86, 0.88, 0.9, 0.903, 0.906, 0.91, 0.913, 0.916, 0.92,
	0.923, 0.926, 0.93, 0.933, 0.936, 0.94, 0.943, 0.946, 0.95, 0.953, 0.956, 0.96, 0.97,
	0.973, 0.976, 0.98, 0.983, 0.986, 0.99, 0.993, 0.996,
}

// Spec is the top-level experiment configuration.
// Loaded from YAML via LoadSpec(path).
type Spec struct {
	Version      string            `yaml:"version"`
	NumServers   int               `yaml:"num_servers"`
	NumJobs      int64             `yaml:"num_jobs"`
	Seed         uint64            `yaml:"seed"`
	Replications int               `yaml:"replications,omitempty"` // 0 means 1
	Distribution workload.DistSpec `yaml:"distribution"`
	Rhos         []float64         `yaml:"rhos,omitempty"` // empty means DefaultRhos
}

// LoadSpec reads and parses a YAML experiment file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// Defaults are applied but the spec is not validated.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	spec.ApplyDefaults()
	return &spec, nil
}

// ApplyDefaults fills in the version, replication count and rho table when
// they are unset. Idempotent.
func (s *Spec) ApplyDefaults() {
	if s.Version == "" {
		s.Version = "1"
	}
	if s.Replications == 0 {
		s.Replications = 1
	}
	if len(s.Rhos) == 0 {
		s.Rhos = append([]float64(nil), DefaultRhos...)
	}
}

// Dist builds the job-size distribution described by the spec.
func (s *Spec) Dist() (workload.Dist, error) {
	d, err := workload.NewDist(s.Distribution)
	if err != nil {
		return workload.Dist{}, fmt.Errorf("distribution: %w", err)
	}
	return d, nil
}

// Validate checks every run the sweep would perform, without sampling.
func (s *Spec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("unsupported spec version %q; valid: 1", s.Version)
	}
	if s.Replications < 1 {
		return fmt.Errorf("replications must be >= 1, got %d", s.Replications)
	}
	if len(s.Rhos) == 0 {
		return fmt.Errorf("at least one rho is required")
	}
	dist, err := s.Dist()
	if err != nil {
		return err
	}
	for i, rho := range s.Rhos {
		cfg := sim.Config{NumServers: s.NumServers, NumJobs: s.NumJobs, Dist: dist, Rho: rho, Seed: s.Seed}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("rhos[%d]: %w", i, err)
		}
	}
	return nil
}

// sim/simulator.go
package sim

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lps-sim/lps-sim/sim/workload"
)

// StepKind classifies one iteration of the event loop.
type StepKind int

const (
	// ArrivalStep: the next arrival came strictly before the next completion.
	ArrivalStep StepKind = iota
	// CompletionStep: a completion came first, or at the same instant as the arrival.
	CompletionStep
)

func (k StepKind) String() string {
	switch k {
	case ArrivalStep:
		return "arrival"
	case CompletionStep:
		return "completion"
	default:
		return "unknown"
	}
}

// Simulator is the core object that holds simulation time, system state, and the event loop.
//
// The service discipline is limited processor sharing with shortest-remaining-work
// admission: the NumServers jobs with the least remaining work are in service,
// and each of them receives 1/NumServers of the unit capacity no matter how many
// jobs are actually in service.
type Simulator struct {
	Clock       float64
	NextArrival float64 // absolute time of the next arrival
	NumServers  int
	NumJobs     int64
	Dist        workload.Dist
	Metrics     *Metrics

	// active is re-sorted by RemainingWork at the start of every Step; its first
	// min(NumServers, len(active)) entries are the jobs in service.
	active   []Job
	arrivals *workload.PoissonArrivals
	rng      *rand.Rand

	nextProgress int64 // completion count at which the next progress line is logged
}

// NewSimulator validates cfg and prepares a run. The first inter-arrival gap is
// drawn here, so the RNG stream is consumed in the same order on every run.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		Clock:      0,
		NumServers: cfg.NumServers,
		NumJobs:    cfg.NumJobs,
		Dist:       cfg.Dist,
		Metrics:    NewMetrics(),
		active:     make([]Job, 0, cfg.NumServers),
		arrivals:   workload.NewPoissonArrivals(cfg.Rho),
		rng:        NewSimulationKey(cfg.Seed).NewRand(),
	}
	s.NextArrival = s.arrivals.SampleGap(s.rng)
	s.nextProgress = progressInterval(s.NumJobs)
	return s, nil
}

// Active returns a copy of the active set in its current order.
func (s *Simulator) Active() []Job {
	return slices.Clone(s.active)
}

// Done reports whether NumJobs completions have been recorded.
func (s *Simulator) Done() bool {
	return s.Metrics.Completions >= s.NumJobs
}

// Step advances the simulation to the next event and applies it.
//
// Work is applied to the in-service prefix chosen before removals, so a job
// is credited right up to the instant it finishes; completions are detected
// only after the advance.
func (s *Simulator) Step() StepKind {
	slices.SortStableFunc(s.active, func(a, b Job) int {
		return cmp.Compare(a.RemainingWork, b.RemainingWork)
	})

	inService := min(s.NumServers, len(s.active))
	servers := float64(s.NumServers)

	nextCompletion := math.Inf(1)
	for _, job := range s.active[:inService] {
		nextCompletion = min(nextCompletion, job.RemainingWork*servers)
	}
	elapsed := min(nextCompletion, s.NextArrival-s.Clock)
	kind := CompletionStep
	if elapsed < nextCompletion {
		kind = ArrivalStep
	}

	s.Metrics.PeakInSystem = max(s.Metrics.PeakInSystem, len(s.active))
	s.Metrics.AreaInSystem += float64(len(s.active)) * elapsed
	s.Clock += elapsed

	for i := range s.active[:inService] {
		s.active[i].RemainingWork -= elapsed / servers
	}
	// Highest index first so the remaining indices stay valid.
	for i := inService - 1; i >= 0; i-- {
		if s.active[i].Done() {
			s.Metrics.ResponseSum += s.Clock - s.active[i].ArrivalTime
			s.Metrics.Completions++
			s.active = slices.Delete(s.active, i, i+1)
		}
	}

	if kind == ArrivalStep {
		size := s.Dist.Sample(s.rng)
		s.active = append(s.active, Job{ArrivalTime: s.Clock, RemainingWork: size})
		s.NextArrival = s.Clock + s.arrivals.SampleGap(s.rng)
		s.Metrics.Arrivals++
		s.Metrics.ArrivalSteps++
	} else {
		s.Metrics.CompletionSteps++
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("[t=%.6f] %s step: elapsed=%.6g active=%d completions=%d",
			s.Clock, kind, elapsed, len(s.active), s.Metrics.Completions)
	}
	return kind
}

// Run steps the simulation until NumJobs jobs have completed and returns the
// mean response time.
func (s *Simulator) Run() float64 {
	startTime := time.Now()
	logrus.Infof("Starting simulation: num_servers=%d num_jobs=%d rho=%v dist=%v",
		s.NumServers, s.NumJobs, s.arrivals.Rate(), s.Dist)

	for !s.Done() {
		s.Step()
		if s.Metrics.Completions >= s.nextProgress && !s.Done() {
			logrus.Debugf("[t=%.2f] %d/%d jobs completed", s.Clock, s.Metrics.Completions, s.NumJobs)
			s.nextProgress += progressInterval(s.NumJobs)
		}
	}
	s.Metrics.SimEndedTime = s.Clock

	logrus.Infof("Simulation complete in %v: %v", time.Since(startTime), s.Metrics)
	return s.Metrics.MeanResponseTime()
}

// Simulate runs one simulation and returns the mean response time of numJobs
// completed jobs. Invalid parameters, including a job-size distribution whose
// mean is not 1, are reported before any sampling takes place.
// Identical arguments always produce a bit-identical result.
func Simulate(numServers int, numJobs int64, dist workload.Dist, rho float64, seed uint64) (float64, error) {
	s, err := NewSimulator(Config{
		NumServers: numServers,
		NumJobs:    numJobs,
		Dist:       dist,
		Rho:        rho,
		Seed:       seed,
	})
	if err != nil {
		return 0, err
	}
	return s.Run(), nil
}

// progressInterval logs roughly ten progress lines per run.
func progressInterval(numJobs int64) int64 {
	return max(numJobs/10, 1)
}

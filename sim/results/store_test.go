package results

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lps-sim/lps-sim/sim/experiment"
	"github.com/lps-sim/lps-sim/sim/workload"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSpec() *experiment.Spec {
	return &experiment.Spec{
		Version:      "1",
		NumServers:   2,
		NumJobs:      1000,
		Seed:         math.MaxUint64,
		Replications: 3,
		Distribution: workload.DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1}},
		Rhos:         []float64{0.5, 1.2},
	}
}

func TestStore_SaveAndGetSweep_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	results := []experiment.Result{
		experiment.Summarize(0.5, []float64{1.4, 1.5, 1.45}),
		experiment.Summarize(1.2, []float64{9, 10, 11}),
	}
	id, err := s.SaveSweep(ctx, testSpec(), results)
	require.NoError(t, err)

	got, err := s.GetSweep(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, fixed, got.CreatedAt)
	assert.Equal(t, 2, got.NumServers)
	assert.Equal(t, int64(1000), got.NumJobs)
	assert.Equal(t, uint64(math.MaxUint64), got.Seed)
	assert.Equal(t, 3, got.Replications)
	assert.Equal(t, "Exp(1)", got.Distribution)
	assert.Equal(t, results, got.Results)
	assert.True(t, math.IsInf(got.Results[1].PSReference, 1), "unbounded reference survives storage")
}

func TestStore_GetSweep_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetSweep(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListRecent_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := s.SaveSweep(ctx, testSpec(), nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	sweeps, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, ids[2], sweeps[0].ID)
	assert.Equal(t, ids[1], sweeps[1].ID)
	assert.Nil(t, sweeps[0].Results)
}

func TestStore_SaveSweep_InvalidDistribution(t *testing.T) {
	s := openTestStore(t)
	spec := testSpec()
	spec.Distribution = workload.DistSpec{Type: "bogus"}
	_, err := s.SaveSweep(context.Background(), spec, nil)
	assert.Error(t, err)

	sweeps, err := s.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, sweeps)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveSweep(ctx, testSpec(), []experiment.Result{experiment.Summarize(0.5, []float64{1.4})})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetSweep(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, []float64{1.4}, got.Results[0].Replications)
}

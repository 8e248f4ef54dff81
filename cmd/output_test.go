package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lps-sim/lps-sim/sim/experiment"
	"github.com/lps-sim/lps-sim/sim/workload"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, 100, 2, 7, workload.Hyperexponential(1, 1, 1).String()))
	assert.Equal(t, "num_jobs 100 num_servers 2 seed 7 dist Hyperexp(1, 1, 1)\n", buf.String())
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		res  experiment.Result
		want string
	}{
		{
			name: "single replication prints mean only",
			res:  experiment.Result{Rho: 0.5, MeanResponse: 1.25, Replications: []float64{1.25}},
			want: "0.5;1.25;",
		},
		{
			name: "replications add std and ci",
			res: experiment.Result{
				Rho: 0.9, MeanResponse: 3.5, StdDev: 0.5, CIHalfWidth: 0.25,
				Replications: []float64{3, 4},
			},
			want: "0.9;3.5;0.5;0.25;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatResult(tt.res))
		})
	}
}

func TestParseRhos(t *testing.T) {
	rhos, err := parseRhos("0.1, 0.5,0.9,")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, rhos)

	_, err = parseRhos("0.1,abc")
	assert.Error(t, err)

	_, err = parseRhos(" , ")
	assert.Error(t, err)
}

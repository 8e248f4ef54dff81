package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lps-sim/lps-sim/sim/experiment"
)

// formatFloat renders x with the fewest digits that round-trip.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// writeHeader prints the line that identifies a run or sweep.
func writeHeader(w io.Writer, numJobs int64, numServers int, seed uint64, dist string) error {
	_, err := fmt.Fprintf(w, "num_jobs %d num_servers %d seed %d dist %s\n", numJobs, numServers, seed, dist)
	return err
}

// formatResult renders one rho's result as "<rho>;<mean>;", extended with
// ";<std>;<ci95>;" when more than one replication contributed.
func formatResult(r experiment.Result) string {
	var b strings.Builder
	b.WriteString(formatFloat(r.Rho))
	b.WriteByte(';')
	b.WriteString(formatFloat(r.MeanResponse))
	b.WriteByte(';')
	if len(r.Replications) > 1 {
		b.WriteString(formatFloat(r.StdDev))
		b.WriteByte(';')
		b.WriteString(formatFloat(r.CIHalfWidth))
		b.WriteByte(';')
	}
	return b.String()
}

// parseRhos parses a comma-separated rho list such as "0.1,0.5,0.9".
func parseRhos(s string) ([]float64, error) {
	var rhos []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		rho, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rho %q: %w", field, err)
		}
		rhos = append(rhos, rho)
	}
	if len(rhos) == 0 {
		return nil, fmt.Errorf("no rhos in %q", s)
	}
	return rhos, nil
}

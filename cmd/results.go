package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lps-sim/lps-sim/sim/results"
)

var (
	resultsDBPath  string // SQLite results database
	resultsSweepID int64  // Sweep to print in full; 0 lists recent sweeps
	resultsLimit   int    // Maximum sweeps listed
)

// resultsCmd reads sweeps saved by "sweep --db"
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored sweeps or print one in full",
	Run: func(cmd *cobra.Command, args []string) {
		if resultsDBPath == "" {
			logrus.Fatalf("--db is required")
		}
		if _, err := os.Stat(resultsDBPath); err != nil {
			logrus.Fatalf("Results database: %v", err)
		}
		store, err := results.Open(cmd.Context(), resultsDBPath)
		if err != nil {
			logrus.Fatalf("Failed to open results database: %v", err)
		}
		defer store.Close()

		if resultsSweepID != 0 {
			sw, err := store.GetSweep(cmd.Context(), resultsSweepID)
			if err != nil {
				logrus.Fatalf("Failed to load sweep %d: %v", resultsSweepID, err)
			}
			if err := writeSweep(os.Stdout, sw); err != nil {
				logrus.Fatalf("Failed to write output: %v", err)
			}
			return
		}

		sweeps, err := store.ListRecent(cmd.Context(), resultsLimit)
		if err != nil {
			logrus.Fatalf("Failed to list sweeps: %v", err)
		}
		if err := writeSweepList(os.Stdout, sweeps); err != nil {
			logrus.Fatalf("Failed to write output: %v", err)
		}
	},
}

// writeSweepList prints one row per sweep.
func writeSweepList(w io.Writer, sweeps []results.Sweep) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSERVERS\tJOBS\tSEED\tREPLICATIONS\tDIST")
	for _, sw := range sweeps {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			sw.ID, sw.CreatedAt.Format(time.RFC3339), sw.NumServers, sw.NumJobs, sw.Seed, sw.Replications, sw.Distribution)
	}
	return tw.Flush()
}

// writeSweep prints a stored sweep in the same format the sweep command uses.
func writeSweep(w io.Writer, sw *results.Sweep) error {
	if err := writeHeader(w, sw.NumJobs, sw.NumServers, sw.Seed, sw.Distribution); err != nil {
		return err
	}
	for _, r := range sw.Results {
		if _, err := fmt.Fprintln(w, formatResult(r)); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	resultsCmd.Flags().StringVar(&resultsDBPath, "db", "", "SQLite results database written by sweep --db")
	resultsCmd.Flags().Int64Var(&resultsSweepID, "sweep", 0, "Print this sweep in full")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "Maximum number of sweeps to list")
}

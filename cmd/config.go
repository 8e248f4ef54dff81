package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lps-sim/lps-sim/sim/experiment"
)

// configCmd prints the effective experiment, so a flag-driven sweep can be
// saved and replayed with --config.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective experiment as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := buildSweepSpec(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeSpec(os.Stdout, spec); err != nil {
			logrus.Fatalf("Failed to write YAML: %v", err)
		}
	},
}

// writeSpec encodes spec as YAML that LoadSpec accepts.
func writeSpec(w io.Writer, spec *experiment.Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	addExperimentFlags(configCmd)
}

// main.go
//
// Entry point; the CLI lives in cmd/root.go.

package main

import (
	"github.com/lps-sim/lps-sim/cmd"
)

func main() {
	cmd.Execute()
}

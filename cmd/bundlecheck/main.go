// Command bundlecheck inspects integrity bundles offline: it recomputes
// content hashes, runs the verification engine against a local video and
// looks up benchmark grades.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bundlecheck",
	Short: "Offline tooling for TalentSpark integrity bundles",
	Long: `Offline tooling for TalentSpark integrity bundles.

Examples:
  bundlecheck hash bundle.json --video recording.webm
  bundlecheck verify bundle.json recording.webm --probe mock
  bundlecheck benchmark 42 22 male`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cli implements the FanPulse command-line interface using Cobra.
// Each subcommand maps to an operator task (serve, leaderboard, grant, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fanpulse",
	Short: "FanPulse fan engagement engine",
	Long: `FanPulse is the engagement engine behind the fan platform.
It owns experience, levels, achievements, and streaks per member, ranks
leaderboards, and serves cached optimization recommendations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

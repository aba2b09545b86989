package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fanpulse/fanpulse/internal/daemon"
	"github.com/fanpulse/fanpulse/internal/domain"
)

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardMetric, "metric", "experience", "Ranking metric: experience, level, or streak")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of entries to show")
	rootCmd.AddCommand(leaderboardCmd)
}

var (
	leaderboardMetric string
	leaderboardLimit  int
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"top"},
	Short:   "Show the member leaderboard",
	RunE:    runLeaderboard,
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	metric := domain.ParseLeaderboardMetric(leaderboardMetric)
	entries, err := d.Ranker.Leaderboard(metric, leaderboardLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No active members yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tMEMBER\t%s\n", string(metric))
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\n", e.Rank, e.DisplayName, e.MetricValue)
	}
	return w.Flush()
}

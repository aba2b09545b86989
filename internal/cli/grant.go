package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fanpulse/fanpulse/internal/daemon"
)

func init() {
	grantCmd.Flags().IntVar(&grantProgress, "progress", 100, "Progress to record (0-100)")
	rootCmd.AddCommand(grantCmd)
}

var grantProgress int

var grantCmd = &cobra.Command{
	Use:   "grant <user-id> <achievement-id>",
	Short: "Grant or progress an achievement for a member",
	Args:  cobra.ExactArgs(2),
	RunE:  runGrant,
}

func runGrant(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID, achievementID := args[0], args[1]
	result, err := d.Ledger.GrantAchievement(userID, achievementID, grantProgress)
	if err != nil {
		return err
	}
	d.Optimizer.Invalidate(userID)

	switch {
	case result.AlreadyGranted:
		fmt.Printf("%s already earned, no change.\n", result.Achievement.Title)
	case result.Completed:
		fmt.Printf("%s %s completed (+%d XP)\n", result.Achievement.Icon, result.Achievement.Title, result.Achievement.Points)
	default:
		fmt.Printf("%s at %d%%\n", result.Achievement.Title, result.Progress)
	}
	return nil
}

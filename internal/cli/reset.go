package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fanpulse/fanpulse/internal/daemon"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset <user-id>",
	Short: "Reset a member's gamification progress to zero",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := args[0]
	if err := d.Ledger.ResetUserProgress(userID); err != nil {
		return err
	}
	d.Optimizer.Invalidate(userID)

	fmt.Printf("Progress reset for %s.\n", userID)
	return nil
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fanpulse/fanpulse/internal/daemon"
)

func init() {
	achievementsCmd.Flags().StringVar(&achievementsUser, "user", "", "Show a member's progress instead of the catalog")
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsUser string

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List the achievement catalog or a member's progress",
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if achievementsUser == "" {
		fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPOINTS")
		for _, def := range d.Ledger.Catalog() {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\n", def.ID, def.Icon, def.Title, def.Category, def.Points)
		}
		return w.Flush()
	}

	state, err := d.Ledger.State(achievementsUser)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "ID\tTITLE\tPROGRESS\tEARNED")
	for _, def := range d.Ledger.Catalog() {
		p := state.Achievements[def.ID]
		earned := "-"
		if p.EarnedAt != nil {
			earned = p.EarnedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s %s\t%d%%\t%s\n", def.ID, def.Icon, def.Title, p.Progress, earned)
	}
	return w.Flush()
}

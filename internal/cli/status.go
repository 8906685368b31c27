package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rehab/internal/analysis"
	"rehab/internal/ledger"
	"rehab/internal/service"
	"rehab/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress and the current reminder interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		saved, err := env.db.UpdatedAt(ledger.SessionsKey)
		if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
			return fmt.Errorf("reading last save time: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), env.tracker, saved)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// printStatus writes the status summary. lastSaved is when the session
// history was last written, zero if never.
func printStatus(w io.Writer, t *service.Tracker, lastSaved time.Time) error {
	h := t.Home()
	streak := analysis.CurrentStreak(t.Sessions(), h.Goal, h.Now, t.Location())

	focus := "not set up yet (run rehab to choose areas)"
	if len(h.FocusAreas) > 0 {
		focus = strings.Join(h.FocusAreas, ", ")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "User:\t%s (%s)\n", t.Profile().Name(), t.Owner())
	fmt.Fprintf(tw, "Today:\t%d / %d sessions (%d%%)\n", h.CompletedToday, h.Goal, h.ProgressPercent)
	fmt.Fprintf(tw, "Remaining:\t%d\n", h.TargetRemaining)
	fmt.Fprintf(tw, "Reminder:\tevery %d min\n", h.IntervalMinutes)
	fmt.Fprintf(tw, "Streak:\t%d days\n", streak)
	fmt.Fprintf(tw, "Focus:\t%s\n", focus)
	fmt.Fprintf(tw, "Recommended:\t%s (%d exercises, %d:%02d)\n",
		h.Recommended.Name, h.Recommended.ActionCount(),
		h.Recommended.TotalSeconds()/60, h.Recommended.TotalSeconds()%60)
	if !lastSaved.IsZero() {
		fmt.Fprintf(tw, "History saved:\t%s\n", humanize.RelTime(lastSaved, h.Now, "ago", "from now"))
	}
	return tw.Flush()
}

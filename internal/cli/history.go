package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rehab/internal/analysis"
	"rehab/internal/ledger"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List logged sessions grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		t := env.tracker
		printHistory(cmd.OutOrStdout(), t.Sessions(), historyDays, t.Now(), t.Location())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "number of days to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(w io.Writer, sessions []ledger.Session, days int, now time.Time, loc *time.Location) {
	var since time.Time
	if days > 0 {
		since = analysis.StartOfDay(now, loc).AddDate(0, 0, -(days - 1))
	}

	groups := analysis.GroupByDay(sessions, loc)
	shown := 0
	for _, g := range groups {
		if g.Date.Before(since) {
			continue
		}
		fmt.Fprintf(w, "%s  (%d)\n", g.Date.Format("Mon Jan 2, 2006"), len(g.Sessions))
		for _, s := range g.Sessions {
			at := s.Date.In(loc)
			fmt.Fprintf(w, "  %s  %-20s %3ds  %s\n",
				at.Format("15:04"), s.Plan.Name, s.Plan.TotalSeconds(),
				humanize.RelTime(at, now, "ago", "from now"))
		}
		shown++
	}

	if shown == 0 {
		fmt.Fprintln(w, "No sessions yet.")
	}
}

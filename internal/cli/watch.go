package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rehab/internal/notify"
	"rehab/internal/scheduler"
	"rehab/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the sitting timer without the TUI and notify when it's time to move",
	Long: `watch keeps the sitting timer running in the foreground and sends a
desktop notification each time a reminder is due. Stop it with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h := env.tracker.Home()
		fmt.Fprintf(cmd.OutOrStdout(), "Watching: next reminder in %d min (%d / %d today)\n",
			h.IntervalMinutes, h.CompletedToday, h.Goal)

		err = watch(ctx, cmd.OutOrStdout(), env.tracker, env.notifier, time.Second)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watch advances the tracker every period and notifies on each reminder.
// There is no workout to finish headless, so each reminder restarts the
// sitting counter and the next one follows a full interval later.
func watch(ctx context.Context, w io.Writer, t *service.Tracker, n notify.Notifier, period time.Duration) error {
	return scheduler.RunTicker(ctx, period, func(time.Time) {
		if !t.Tick() {
			return
		}
		h := t.Home()
		t.Dismiss()
		fmt.Fprintf(w, "%s  Time to Move! Try %s\n", h.Now.Format("15:04"), h.Recommended.Name)

		body := notify.ReminderBody(h.Recommended.Name, h.CompletedToday, h.Goal)
		nctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := n.Notify(nctx, "Time to Move!", body); err != nil {
			fmt.Fprintf(w, "notification failed: %v\n", err)
		}
	})
}

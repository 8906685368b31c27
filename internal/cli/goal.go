package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal [sessions]",
	Short: "Show or set the daily session goal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintf(out, "Daily goal: %d sessions\n", env.tracker.Goal())
			return nil
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("goal must be a whole number, got %q", args[0])
		}
		if err := env.tracker.UpdateGoal(n); err != nil {
			return err
		}
		fmt.Fprintf(out, "Daily goal set to %d sessions\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
}

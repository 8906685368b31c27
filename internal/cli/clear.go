package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all logged sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return errors.New("this deletes every logged session; rerun with --yes to confirm")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		n := env.tracker.SessionCount()
		if err := env.tracker.ClearData(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d sessions\n", n)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion")
	rootCmd.AddCommand(clearCmd)
}

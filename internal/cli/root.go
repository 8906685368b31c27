// Package cli is the rehab command line: the TUI plus a few headless
// subcommands that share the same store.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rehab/internal/analysis"
	"rehab/internal/tui"
)

var (
	configPath string
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:   "rehab",
	Short: "rehab reminds you to get up and stretch",
	Long: `rehab tracks how long you have been sitting and spreads your daily
exercise sessions across the active hours of the day.

Run without a subcommand to open the terminal interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		app := tui.NewApp(env.tracker, tui.Options{
			WeekStart:   analysis.ParseWeekStart(env.cfg.Display.WeekStart),
			HistoryDays: env.cfg.Display.HistoryDays,
			Notifier:    env.notifier,
			Logger:      env.log,
		})

		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rehab/config.json)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding data.db and rehab.log")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

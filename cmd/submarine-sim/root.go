package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"submarine-sim/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "submarine-sim",
	Short: "Submarine combat simulation toolkit",
	Long:  "submarine-sim runs the wave-based submarine combat game headless, replays state logs and shows the leaderboard.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		slog.SetDefault(logging.NewWithWriter(os.Stderr, level))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $LOG_LEVEL")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(dashboardCmd)
}

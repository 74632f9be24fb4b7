package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"submarine-sim/internal/config"
	"submarine-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayOutput    string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a state log file",
	Long:  "replay feeds state rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		if replayOutput == outputTUI || replayOutput == outputAuto {
			replayOutput = outputJSON
		}
		writer, cleanup, err := newStateWriter(config.Default(), replayPrintOnly, replayOutput, slog.Default())
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to state log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayOutput, "output", outputJSON, "STDOUT mode: json or color")
	replayCmd.MarkFlagRequired("input")
}

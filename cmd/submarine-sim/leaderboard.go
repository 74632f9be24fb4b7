package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"submarine-sim/internal/leaderboard"
)

var (
	lbPath       string
	lbLimit      int
	lbDifficulty float64
	lbPlayer     string
	lbJSON       bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the local leaderboard",
	Long:  "leaderboard lists the best recorded games, optionally filtered by difficulty, or one player's best game.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := leaderboard.Open(lbPath, slog.Default())
		if err != nil {
			return err
		}
		defer store.Close()

		var entries []leaderboard.Entry
		if lbPlayer != "" {
			best, err := store.PlayerBest(cmd.Context(), lbPlayer)
			if err != nil {
				return err
			}
			entries = []leaderboard.Entry{best}
		} else {
			entries, err = store.Top(cmd.Context(), lbLimit, lbDifficulty)
			if err != nil {
				return err
			}
		}
		if lbJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
		}
		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func printEntries(out io.Writer, entries []leaderboard.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tWAVE\tDIFFICULTY\tTIME\tMODE\tDATE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f\t%ds\t%s\t%s\n",
			i+1, e.PlayerName, e.Score, e.HighestWave, e.Difficulty, e.PlayTimeSeconds, e.GameMode,
			e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func init() {
	leaderboardCmd.Flags().StringVar(&lbPath, "db", "leaderboard.db", "SQLite leaderboard file")
	leaderboardCmd.Flags().IntVar(&lbLimit, "limit", 10, "Number of entries to show")
	leaderboardCmd.Flags().Float64Var(&lbDifficulty, "difficulty", 0, "Only show games at this difficulty (0 for all)")
	leaderboardCmd.Flags().StringVar(&lbPlayer, "player", "", "Show this player's best game")
	leaderboardCmd.Flags().BoolVar(&lbJSON, "json", false, "Print entries as JSON")
}
